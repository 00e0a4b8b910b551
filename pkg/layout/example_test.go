package layout_test

import (
	"fmt"

	"github.com/matzehuels/tabbridge/pkg/layout"
)

func ExampleEncode() {
	data, err := layout.Encode(layout.Attrs{
		"left":  "30%",
		"top":   []any{"#title", 8},
		"right": "0% 16",
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, attr := range data.Keys() {
		fmt.Printf("%s: %v\n", attr, data[attr])
	}
	// Output:
	// left: [30%, 0]
	// right: 16
	// top: [#title, 8]
}

func ExampleEncode_invalid() {
	_, err := layout.Encode(layout.Attrs{"left": 0, "baseline": 23})
	fmt.Println(err)
	// Output: Invalid value for 'baseline': must be a widget reference
}

func ExampleCheckConsistency() {
	attrs := layout.CheckConsistency(layout.Attrs{"left": 0, "right": 0, "width": 100}, func(msg string) {
		fmt.Println("warning:", msg)
	})
	fmt.Println(len(attrs))
	// Output:
	// warning: Inconsistent layoutData: left and right are set, ignore width
	// 2
}

func ExampleDecode() {
	data := layout.Data{
		layout.Left: layout.PercentOffset{Percent: 30},
		layout.Top:  layout.AnchorOffset{Anchor: layout.Anchor{Selector: "#title"}, Offset: -8},
	}
	attrs := layout.Decode(data)
	fmt.Println(attrs["left"], attrs["top"])
	// Output: 30% #title -8
}

func ExampleQueue() {
	var frames layout.ManualScheduler
	q := layout.NewQueue(&frames)

	w := flushFunc(func() error {
		fmt.Println("flushed")
		return nil
	})
	q.Add(&w)
	q.Add(&w)

	fmt.Println("pending:", q.Len())
	frames.RunPending()
	fmt.Println("pending:", q.Len())
	// Output:
	// pending: 1
	// flushed
	// pending: 0
}

type flushFunc func() error

func (f *flushFunc) FlushLayout() error { return (*f)() }
