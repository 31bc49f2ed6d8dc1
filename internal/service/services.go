package service

// Services bundles every service sharing one Engine.
type Services struct {
	Engine   *Engine
	Registry RegistryService
	Drafts   DraftService
	Import   ImportService
	Export   ExportService
}

// NewServices wires all services onto e.
func NewServices(e *Engine) *Services {
	registry := NewRegistryService(e)
	return &Services{
		Engine:   e,
		Registry: registry,
		Drafts:   NewDraftService(e),
		Import:   NewImportService(e),
		Export:   NewExportService(registry),
	}
}
