package summary

// Option applies a configuration option to the Gemini generator.
type Option func(*Gemini)

// WithModel overrides the Gemini model name.
func WithModel(name string) Option {
	return func(g *Gemini) {
		if name != "" {
			g.model = name
		}
	}
}
