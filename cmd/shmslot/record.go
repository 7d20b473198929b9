package main

// event is the record the demo and serve commands store in each slot.
type event struct {
	Seq    uint64
	Worker uint32
	Round  uint32
	Stamp  int64
}
