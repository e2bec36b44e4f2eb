package ports

// IDGenerator produces fresh unique identities.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

// NewID calls f().
func (f IDGeneratorFunc) NewID() string {
	return f()
}
