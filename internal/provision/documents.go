package provision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mosaicdev/mosaic/internal/models"
	"github.com/mosaicdev/mosaic/internal/store"
)

// SysInitKey is the sentinel key whose presence marks the system as
// initialized. It lives in its own namespace, apart from the global and
// template documents.
const SysInitKey = "/sys_init"

func globalConfigKey(org string) string {
	return models.GlobalKey + "/" + org
}

func templateDocKey(org, templateID string) string {
	return models.TemplateKey + "/" + org + "/" + templateID
}

func templatePrefix(org string) string {
	return models.TemplateKey + "/" + org
}

// loadGlobalConfig reads the latest global config for an organization.
// Returns (nil, nil) when the organization has never been provisioned.
func loadGlobalConfig(ctx context.Context, docs store.DocumentStore, org string) (*models.GlobalConfig, error) {
	doc, err := docs.Get(ctx, globalConfigKey(org))
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var global models.GlobalConfig
	if err := json.Unmarshal(doc.Value, &global); err != nil {
		return nil, fmt.Errorf("%w: global config for %s: %v", ErrInner, org, err)
	}
	return &global, nil
}

func saveGlobalConfig(ctx context.Context, docs store.DocumentStore, global *models.GlobalConfig) error {
	value, err := json.Marshal(global)
	if err != nil {
		return fmt.Errorf("%w: encode global config: %v", ErrInner, err)
	}
	return docs.Save(ctx, globalConfigKey(global.Organization), value)
}

// loadTemplate reads the latest version of one template.
// Returns (nil, nil) when it does not exist.
func loadTemplate(ctx context.Context, docs store.DocumentStore, org, templateID string) (*models.Template, error) {
	matches, err := docs.GetPrefixed(ctx, templateDocKey(org, templateID))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	// GetPrefixed orders by descending version; the first row is current.
	var tmpl models.Template
	if err := json.Unmarshal(matches[0].Value, &tmpl); err != nil {
		return nil, fmt.Errorf("%w: template %s: %v", ErrInner, templateID, err)
	}
	return &tmpl, nil
}

func listTemplates(ctx context.Context, docs store.DocumentStore, org string) ([]*models.Template, error) {
	matches, err := docs.GetPrefixed(ctx, templatePrefix(org))
	if err != nil {
		return nil, err
	}

	templates := make([]*models.Template, 0, len(matches))
	for _, doc := range matches {
		var tmpl models.Template
		if err := json.Unmarshal(doc.Value, &tmpl); err != nil {
			return nil, fmt.Errorf("%w: template document %s: %v", ErrInner, doc.Key, err)
		}
		templates = append(templates, &tmpl)
	}
	return templates, nil
}

func saveTemplate(ctx context.Context, docs store.DocumentStore, tmpl *models.Template) error {
	value, err := json.Marshal(tmpl)
	if err != nil {
		return fmt.Errorf("%w: encode template: %v", ErrInner, err)
	}
	return docs.Save(ctx, templateDocKey(tmpl.Organization, tmpl.ID), value)
}
