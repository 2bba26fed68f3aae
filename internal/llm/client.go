package llm

// Model describes one concrete model a ProviderAdapter can serve.
type Model struct {
	Provider string
	Name     string
	Kind     ModelKind
}
