package snapshot

import "github.com/promptkit/promptsync/internal/models"

// ToExportShape buckets sync items back into the import shape the local
// data source consumes. Unknown item types are dropped; the single
// settings item becomes the settings blob directly.
func ToExportShape(items []models.SyncItem) *ExportData {
	data := &ExportData{
		Categories: make([]map[string]any, 0),
		Prompts:    make([]map[string]any, 0),
		AIConfigs:  make([]map[string]any, 0),
	}

	for _, item := range items {
		switch item.Type {
		case models.ItemTypeCategory:
			data.Categories = append(data.Categories, item.Content)
		case models.ItemTypePrompt:
			data.Prompts = append(data.Prompts, item.Content)
		case models.ItemTypeAIConfig:
			data.AIConfigs = append(data.AIConfigs, item.Content)
		case models.ItemTypeSetting:
			data.Settings = item.Content
		}
	}

	return data
}
