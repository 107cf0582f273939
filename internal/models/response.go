package models

// Response is the envelope returned by every product endpoint. Callers check
// Success before reading Data.
type Response struct {
	Success      bool   `json:"success"`
	Data         any    `json:"data,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// PaginationMeta describes the page window returned by a page query.
type PaginationMeta struct {
	CurrentPage int `json:"currentPage"`
	PageCount   int `json:"pageCount"`
	PageSize    int `json:"pageSize"`
	Count       int `json:"count"`
}

// PageResult is the data of a page query.
type PageResult struct {
	Result []Product       `json:"result"`
	Meta   PaginationMeta `json:"meta"`
}

// Summary is the data of an info query. Statistics are omitted when the
// query matched nothing.
type Summary struct {
	NbNew        int      `json:"nbNew"`
	LastReleased string   `json:"lastReleased,omitempty"`
	P50          *float64 `json:"p50,omitempty"`
	P90          *float64 `json:"p90,omitempty"`
	P95          *float64 `json:"p95,omitempty"`
}

// ScrapeReport summarizes one scraping batch.
type ScrapeReport struct {
	Sources  []SourceReport `json:"sources"`
	Total    int            `json:"total"`
	Upserted int64          `json:"upserted"`
	Catalog  int64          `json:"catalog"`
}

// SourceReport is the outcome of scraping a single e-shop.
type SourceReport struct {
	Brand    string `json:"brand"`
	Link     string `json:"link"`
	Products int    `json:"products"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}
