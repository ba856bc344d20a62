package config

const (
	// MaxLocationNameLength is the maximum length for location names.
	// The mini-app UI truncates breadcrumbs well before this, but the
	// service enforces the hard cap.
	MaxLocationNameLength = 200

	// MaxItemNameLength is the maximum length for item names.
	MaxItemNameLength = 200

	// MaxItemDescriptionLength is the maximum length for item descriptions.
	MaxItemDescriptionLength = 1000

	// MaxSuggestTextLength caps the free-text input of the suggestion
	// endpoint to keep prompts small.
	MaxSuggestTextLength = 2000

	// MaxSuggestImageBytes caps the decoded photo size for the suggestion
	// endpoint. 5MB covers any phone camera shot after the usual client-side
	// downscaling.
	MaxSuggestImageBytes = 5 << 20
)
