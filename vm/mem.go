package vm

// MappedMem is a RAM span mapped into the CPU's data address space.
type MappedMem[T Word] struct {
	Start T
	Data  []byte
}

// MemoryIO is a memory-mapped device. Addresses are relative to the
// device's mapping start.
type MemoryIO interface {
	Load(addr int) byte
	Store(addr int, val byte)
}

// MappedIO binds a device to an address range. I/O mappings are searched
// before RAM on every byte access, so a device may shadow RAM.
type MappedIO[T Word] struct {
	Start T
	Size  T
	IO    MemoryIO
}

// Address range checks are done in int so spans ending at the top of the
// address space don't wrap.

func (c *CPU[T]) loadByte(addr T) byte {
	a := int(addr)
	for _, io := range c.IO {
		if a >= int(io.Start) && a < int(io.Start)+int(io.Size) {
			return io.IO.Load(a - int(io.Start))
		}
	}
	for _, mem := range c.DMem {
		if a >= int(mem.Start) && a < int(mem.Start)+len(mem.Data) {
			return mem.Data[a-int(mem.Start)]
		}
	}
	c.Err = ErrIllegalLoad
	return 0
}

func (c *CPU[T]) storeByte(addr T, val byte) {
	a := int(addr)
	for _, io := range c.IO {
		if a >= int(io.Start) && a < int(io.Start)+int(io.Size) {
			io.IO.Store(a-int(io.Start), val)
			return
		}
	}
	for _, mem := range c.DMem {
		if a >= int(mem.Start) && a < int(mem.Start)+len(mem.Data) {
			mem.Data[a-int(mem.Start)] = val
			return
		}
	}
	c.Err = ErrIllegalStore
}

// loadWord reads a full word, little-endian. Word access only ever hits
// RAM, and the whole word must lie within a single span. On 8-bit CPUs
// this degrades to a single byte.
func (c *CPU[T]) loadWord(addr T) T {
	a, size := int(addr), c.wordBytes()
	for _, mem := range c.DMem {
		if a >= int(mem.Start) && a+size <= int(mem.Start)+len(mem.Data) {
			val := T(mem.Data[a-int(mem.Start)])
			if size > 1 {
				val |= T(mem.Data[a-int(mem.Start)+1]) << 8
			}
			return val
		}
	}
	c.Err = ErrIllegalLoad
	return 0
}

func (c *CPU[T]) storeWord(addr T, val T) {
	a, size := int(addr), c.wordBytes()
	for _, mem := range c.DMem {
		if a >= int(mem.Start) && a+size <= int(mem.Start)+len(mem.Data) {
			mem.Data[a-int(mem.Start)] = byte(val)
			if size > 1 {
				mem.Data[a-int(mem.Start)+1] = byte(val >> 8)
			}
			return
		}
	}
	c.Err = ErrIllegalStore
}
