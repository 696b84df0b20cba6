//go:build linux

package screen

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// x11Pointer queries the root window for the pointer position. Not usable
// under a pure Wayland session.
type x11Pointer struct {
	conn      *xgb.Conn
	root      xproto.Window
	closeOnce sync.Once
}

// NewPointer returns the platform cursor reader.
func NewPointer() (Pointer, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root
	return &x11Pointer{conn: conn, root: root}, nil
}

func (p *x11Pointer) Position() (int, int, error) {
	reply, err := xproto.QueryPointer(p.conn, p.root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}

func (p *x11Pointer) Close() error {
	p.closeOnce.Do(p.conn.Close)
	return nil
}
