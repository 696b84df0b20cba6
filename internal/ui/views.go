package ui

import "github.com/hanamizuki10/get-color-for-windows/internal/sampler"

// Views fans one update out to several views in order.
type Views []sampler.View

func (vs Views) Render(s sampler.Sample) {
	for _, v := range vs {
		v.Render(s)
	}
}

func (vs Views) SetState(st sampler.State) {
	for _, v := range vs {
		v.SetState(st)
	}
}
