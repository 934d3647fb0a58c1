package param

// Builder assembles a Parameter with a fluent API.
type Builder struct {
	param        *Parameter
	defaultPlain float64
	hasDefault   bool
}

// New starts building a parameter with the given ID and name. The default
// range is [0,1].
func New(id uint32, name string) *Builder {
	return &Builder{
		param: &Parameter{
			ID:        id,
			Name:      name,
			ShortName: name,
			Min:       0,
			Max:       1,
		},
	}
}

// ShortName sets the abbreviated panel label.
func (b *Builder) ShortName(name string) *Builder {
	b.param.ShortName = name
	return b
}

// Range sets the plain value range.
func (b *Builder) Range(min, max float64) *Builder {
	b.param.Min = min
	b.param.Max = max
	return b
}

// Default sets the default in plain units. The value is resolved against
// the final range in Build, so Default and Range may come in any order.
func (b *Builder) Default(plain float64) *Builder {
	b.defaultPlain = plain
	b.hasDefault = true
	return b
}

// Unit sets the display unit suffix.
func (b *Builder) Unit(unit string) *Builder {
	b.param.Unit = unit
	return b
}

// Steps makes the parameter discrete with the given step count (so the
// parameter takes count+1 values).
func (b *Builder) Steps(count int) *Builder {
	b.param.StepCount = count
	return b
}

// Options makes the parameter discrete with one named step per option. The
// plain range becomes the step index range.
func (b *Builder) Options(names ...string) *Builder {
	b.param.options = names
	b.param.StepCount = len(names) - 1
	b.param.Min = 0
	b.param.Max = float64(len(names) - 1)
	return b
}

// Toggle makes the parameter a two-state switch.
func (b *Builder) Toggle() *Builder {
	b.param.Min = 0
	b.param.Max = 1
	b.param.StepCount = 1
	return b
}

// Formatter sets custom display formatting and parsing, both in plain
// units.
func (b *Builder) Formatter(format func(float64) string, parse func(string) (float64, error)) *Builder {
	b.param.formatFunc = format
	b.param.parseFunc = parse
	return b
}

// Build finalizes the parameter at its default value.
func (b *Builder) Build() *Parameter {
	if b.hasDefault {
		b.param.DefaultValue = b.param.Normalize(b.defaultPlain)
	}
	b.param.SetValue(b.param.DefaultValue)
	return b.param
}
