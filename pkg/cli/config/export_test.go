package config

// SetBoardPath sets the board definition path directly for tests
func SetBoardPath(b *Board, path string) {
	b.path = path
}

// NewMemoryRepository returns a Repository preset to the memory backend
func NewMemoryRepository() *Repository {
	return &Repository{backend: "memory", entity: "task"}
}
