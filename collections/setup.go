package collections

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"takeoff/logging"
)

// Collection names.
const (
	Projects  = "projects"
	IfcModels = "ifc_models"
	TypeCodes = "type_codes"
)

// MaxPayloadBytes bounds the stored model document.
const MaxPayloadBytes = 50 << 20

// Setup programmatically creates/ensures the projects, ifc_models and
// type_codes collections exist.
func Setup(app *pocketbase.PocketBase, logger *zap.Logger) error {
	logger = logging.Or(logger)

	projects, err := ensureCollection(app, logger, Projects, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
	if err != nil {
		return err
	}

	_, err = ensureCollection(app, logger, IfcModels, func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "model_uuid", Required: true})
		c.Fields.Add(&core.TextField{Name: "file_name", Required: false})
		c.Fields.Add(&core.JSONField{Name: "payload", Required: true, MaxSize: MaxPayloadBytes})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.AddIndex("idx_ifc_models_project_uuid", true, "project, model_uuid", "")
	})
	if err != nil {
		return err
	}

	_, err = ensureCollection(app, logger, TypeCodes, func(c *core.Collection) {
		c.Fields.Add(&core.NumberField{Name: "code", Required: true, OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.AddIndex("idx_type_codes_code", true, "code", "")
	})
	return err
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, logger *zap.Logger, name string, addFields func(*core.Collection)) (*core.Collection, error) {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		logger.Debug("Collection already exists, skipping creation", zap.String("collection", name))
		return existing, nil
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		return nil, &SetupError{Collection: name, Err: err}
	}

	logger.Info("Created collection", zap.String("collection", name), zap.String("id", collection.Id))
	return collection, nil
}

// SetupError reports a collection that could not be created.
type SetupError struct {
	Collection string
	Err        error
}

func (e *SetupError) Error() string {
	return "failed to create collection " + e.Collection + ": " + e.Err.Error()
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
