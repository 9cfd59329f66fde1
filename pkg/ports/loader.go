package ports

// ModuleLoader defines how the engine retrieves module definitions.
// This allows the storage layer (FS, Memory) to be decoupled.
type ModuleLoader interface {
	// GetModule retrieves the raw definition of a module by ID.
	// It returns the raw bytes (which the compiler will parse) or domain.ErrModuleNotFound.
	GetModule(id string) ([]byte, error)

	// ListModules returns the IDs of every module the loader can serve, sorted.
	ListModules() ([]string, error)
}
