package diagram_test

import (
	"fmt"

	"github.com/matzehuels/structboard/pkg/diagram"
)

func ExampleDocument_linkedList() {
	// Two list nodes, each a struct holding a value and a next pointer
	d := diagram.New()
	var nodes []*diagram.Element
	for i, v := range []string{"1", "2"} {
		s := d.NewStruct(float64(i)*400, 0, "node")
		val := d.NewDataCell(0, 0, "val", v)
		next := d.NewPointerCell(0, 0, "next")
		d.Add(s.ID(), val.ID())
		d.Add(s.ID(), next.ID())
		nodes = append(nodes, s)
	}
	first := d.ChildrenOf(nodes[0].ID())
	d.CreateArrow(first[1].ID(), nodes[1].ID())

	seg, _ := first[1].Arrow()
	fmt.Println("Elements:", d.Len())
	fmt.Println("Struct width:", nodes[0].Bounds().W)
	fmt.Printf("Arrow: (%.1f,%.1f) -> (%.1f,%.1f)\n", seg.From.X, seg.From.Y, seg.To.X, seg.To.Y)
	// Output:
	// Elements: 6
	// Struct width: 320
	// Arrow: (210.0,70.0) -> (400.0,64.6)
}

func ExampleDocument_PopTop() {
	d := diagram.New()
	st := d.NewStackQueue(0, 0, "stack", diagram.Stack)
	for _, v := range []string{"a", "b", "c"} {
		d.Add(st.ID(), d.NewDataCell(0, 0, v, v).ID())
	}
	for {
		top, ok := d.PopTop(st.ID())
		if !ok {
			break
		}
		fmt.Print(top.Value(), " ")
	}
	fmt.Println()
	// Output:
	// c b a
}

func ExampleDocument_Delete() {
	d := diagram.New()
	box := d.NewContainer(0, 0, "box", 300, 200)
	cell := d.NewDataCell(10, 10, "x", "7")
	p := d.NewPointerCell(400, 0, "p")
	d.Add(box.ID(), cell.ID())
	d.CreateArrow(p.ID(), cell.ID())

	fmt.Println(d.Delete(box.ID()))
	fmt.Println(d.Delete(box.ID()))
	fmt.Printf("remaining=%d target=%q\n", d.Len(), p.Target())
	// Output:
	// deleted
	// already absent
	// remaining=1 target=""
}
