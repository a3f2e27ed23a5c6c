package domain

// Staff represents a scheduled venue employee.
type Staff struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	HourlyRate float64 `json:"hourlyRate,omitempty"`
	Shift      string  `json:"shift,omitempty"`
}

// Customer is a CRM record. LifetimeSpend feeds the loyalty calculation.
type Customer struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	LifetimeSpend float64 `json:"lifetimeSpend"`
	Notes         string  `json:"notes,omitempty"`
}

// InventoryItem tracks stocked goods at the venue.
type InventoryItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku,omitempty"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorderLevel,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Location     string `json:"location,omitempty"`
}

// Document is a metadata record pointing at an externally stored file.
type Document struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind,omitempty"`
	URL        string   `json:"url,omitempty"`
	UploadedAt string   `json:"uploadedAt,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Artist is a roster entry for a performer the venue books.
type Artist struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Genre   string  `json:"genre,omitempty"`
	Agent   string  `json:"agent,omitempty"`
	Contact string  `json:"contact,omitempty"`
	Fee     float64 `json:"fee,omitempty"`
}
