package main

import "github.com/filament-ui/filament"

// Demo is the devserver's default root component: a minimal counter that
// exercises UseState, a click Event part and a ChildNode part (the count,
// which the template compiler anchors on a comment marker) end to end over
// the wshost transport, the same role the teacher's own cmd/vango demo app
// played for its server.
func Demo() filament.Literal {
	count, setCount := filament.UseState(0)

	onIncrement := func() {
		setCount(func(n int) int { return n + 1 })
	}

	return filament.HTML([]string{
		`<div><p>count: `, `</p><button @click="`, `">increment</button></div>`,
	}, count, onIncrement)
}
