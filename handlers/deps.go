package handlers

import (
	"github.com/pocketbase/pocketbase"
	"go.uber.org/zap"

	"takeoff/config"
	"takeoff/logging"
	"takeoff/services"
)

// Deps carries what every handler needs.
type Deps struct {
	App    *pocketbase.PocketBase
	Config *config.Config
	Logger *zap.Logger

	// fileOverrides are the operator's YAML type names; they win over the
	// type_codes collection.
	fileOverrides map[int64]string
}

// NewDeps loads the static parts of the handler configuration.
func NewDeps(app *pocketbase.PocketBase, cfg *config.Config, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		cfg = config.FromMap(nil)
	}
	overrides, err := cfg.TypeCodeOverrides()
	if err != nil {
		return nil, err
	}
	return &Deps{
		App:           app,
		Config:        cfg,
		Logger:        logging.Or(logger),
		fileOverrides: overrides,
	}, nil
}

// Resolver builds the type resolver for one request: defaults, then the
// type_codes collection, then the YAML file.
func (d *Deps) Resolver() *services.TypeResolver {
	stored, err := services.LoadTypeCodeOverrides(d.App)
	if err != nil {
		d.Logger.Warn("Could not read type_codes, using defaults", zap.Error(err))
		stored = nil
	}
	return services.NewTypeResolver(stored).With(d.fileOverrides)
}

// Engine builds a fresh engine for one request.
func (d *Deps) Engine() *services.Engine {
	return services.NewEngine(d.Resolver(), d.Config.WallOptions(), d.Logger)
}
