//go:build linux

package slot_test

import (
	"context"
	"fmt"

	"github.com/srediag/shmslot/pkg/shm"
	"github.com/srediag/shmslot/pkg/slot"
)

type order struct {
	ID       uint64
	Quantity uint32
	Price    uint32
}

func Example() {
	cfg := shm.DefaultConfig()
	cfg.Size = 64

	err := shm.With(context.Background(), cfg, func(r *shm.Region) error {
		a, err := slot.New[order](r)
		if err != nil {
			return err
		}
		if err := a.Initialize(); err != nil {
			return err
		}

		first, _ := a.Allocate(order{ID: 1, Quantity: 10, Price: 250})
		second, _ := a.Allocate(order{ID: 2, Quantity: 5, Price: 990})
		released, _ := a.Release(first)
		third, _ := a.Allocate(order{ID: 3, Quantity: 1, Price: 100})

		fmt.Println(first, second, third)
		fmt.Printf("released order %d\n", released.ID)
		fmt.Print(a.Describe())
		return nil
	})
	if err != nil {
		fmt.Println("error:", err)
	}
	// Output:
	// 0 16 0
	// released order 1
	// slots=4 record=16B occupied=2 free=2 length=64
	//        0 ##..
}
