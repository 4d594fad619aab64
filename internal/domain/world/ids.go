package world

// IDAllocator hands out settlement and resource ids for one generation
// session. Ids are never reused by the same allocator.
type IDAllocator struct {
	nextSettlement int
	nextResource   int
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{nextSettlement: 1, nextResource: 1}
}

// ResumeIDAllocator continues numbering after the highest ids already in m.
func ResumeIDAllocator(m *Map) *IDAllocator {
	a := NewIDAllocator()
	for _, s := range m.Settlements {
		if s.ID >= a.nextSettlement {
			a.nextSettlement = s.ID + 1
		}
	}
	for _, r := range m.Resources {
		if r.ID >= a.nextResource {
			a.nextResource = r.ID + 1
		}
	}
	return a
}

func (a *IDAllocator) NextSettlementID() int {
	id := a.nextSettlement
	a.nextSettlement++
	return id
}

func (a *IDAllocator) NextResourceID() int {
	id := a.nextResource
	a.nextResource++
	return id
}
