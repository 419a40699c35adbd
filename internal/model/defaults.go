package model

// DefaultTree returns the starter tree used when nothing is stored yet or
// the stored data is unusable. IDs are fresh on every call.
func DefaultTree() Tree {
	return Tree{
		{
			ID:    GenerateID(),
			Title: "Work",
			Icon:  "Briefcase",
			Subcategories: []Subcategory{
				{
					ID:    GenerateID(),
					Title: "Design",
					Icon:  "Palette",
					Links: []Link{
						{ID: GenerateID(), Title: "Figma", URL: "https://figma.com"},
						{ID: GenerateID(), Title: "Coolors", URL: "https://coolors.co"},
					},
				},
			},
			Links: []Link{
				{ID: GenerateID(), Title: "Google Drive", URL: "https://drive.google.com"},
				{ID: GenerateID(), Title: "Notion", URL: "https://notion.so"},
			},
		},
		{
			ID:            GenerateID(),
			Title:         "Leisure",
			Icon:          "Gamepad2",
			Subcategories: []Subcategory{},
			Links: []Link{
				{ID: GenerateID(), Title: "YouTube", URL: "https://youtube.com"},
				{ID: GenerateID(), Title: "Reddit", URL: "https://reddit.com"},
			},
		},
	}
}
