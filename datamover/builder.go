package datamover

// DescriptorBuilder can build descriptors.
type DescriptorBuilder struct {
	srcAddr uint32
	dstAddr uint32
	totLen  uint32
	src     Shape
	dst     Shape
}

// MakeDescriptorBuilder creates a new DescriptorBuilder.
func MakeDescriptorBuilder() DescriptorBuilder {
	return DescriptorBuilder{}
}

// WithSrcAddress sets the base address of the source buffer.
func (b DescriptorBuilder) WithSrcAddress(addr uint32) DescriptorBuilder {
	b.srcAddr = addr
	return b
}

// WithDstAddress sets the base address of the destination buffer.
func (b DescriptorBuilder) WithDstAddress(addr uint32) DescriptorBuilder {
	b.dstAddr = addr
	return b
}

// WithTotalLength sets the number of units to move.
func (b DescriptorBuilder) WithTotalLength(n uint32) DescriptorBuilder {
	b.totLen = n
	return b
}

// WithSrcShape sets how the source is walked.
func (b DescriptorBuilder) WithSrcShape(s Shape) DescriptorBuilder {
	b.src = s
	return b
}

// WithDstShape sets how the destination is walked.
func (b DescriptorBuilder) WithDstShape(s Shape) DescriptorBuilder {
	b.dst = s
	return b
}

// WithShape uses the same shape on both sides.
func (b DescriptorBuilder) WithShape(s Shape) DescriptorBuilder {
	b.src = s
	b.dst = s
	return b
}

// Build creates the descriptor.
func (b DescriptorBuilder) Build() Descriptor {
	return Descriptor{
		SrcAddr: b.srcAddr,
		DstAddr: b.dstAddr,
		TotLen:  b.totLen,
		Src:     b.src,
		Dst:     b.dst,
	}
}
