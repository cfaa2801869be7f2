package png

type OptionsBuilder struct {
	opts Options
}

func NewOptionsBuilder(width, height int) *OptionsBuilder {
	return &OptionsBuilder{
		opts: Options{
			Width:            width,
			Height:           height,
			ColorType:        ColorRGBA,
			BitDepth:         8,
			CompressionLevel: 6,
			FilterStrategy:   FilterStrategyAdaptive,
			OptimalDeflate:   false,
		},
	}
}

func (b *OptionsBuilder) Fast() *OptionsBuilder {
	b.opts.CompressionLevel = 2
	b.opts.FilterStrategy = FilterStrategyAdaptiveFast
	b.opts.OptimalDeflate = false
	return b
}

func (b *OptionsBuilder) Balanced() *OptionsBuilder {
	b.opts.CompressionLevel = 6
	b.opts.FilterStrategy = FilterStrategyAdaptive
	b.opts.OptimalDeflate = false
	return b
}

func (b *OptionsBuilder) Max() *OptionsBuilder {
	b.opts.CompressionLevel = 9
	b.opts.FilterStrategy = FilterStrategyMinSum
	b.opts.OptimalDeflate = true
	return b
}

func (b *OptionsBuilder) CompressionLevel(level int) *OptionsBuilder {
	if level < 1 {
		level = 1
	} else if level > 9 {
		level = 9
	}
	b.opts.CompressionLevel = level
	return b
}

func (b *OptionsBuilder) FilterStrategy(strategy FilterStrategy) *OptionsBuilder {
	b.opts.FilterStrategy = strategy
	return b
}

func (b *OptionsBuilder) BitDepth(depth uint8) *OptionsBuilder {
	b.opts.BitDepth = depth
	return b
}

func (b *OptionsBuilder) OptimalDeflate(enabled bool) *OptionsBuilder {
	b.opts.OptimalDeflate = enabled
	return b
}

func (b *OptionsBuilder) Build() Options {
	return b.opts
}
