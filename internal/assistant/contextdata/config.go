// internal/assistant/contextdata/config.go
package contextdata

import "time"

// DatasetQuery describes how one logical dataset is acquired: the cache
// keys to probe in priority order (may be empty), the live endpoint, its
// budget, and the result cap.
type DatasetQuery struct {
	Name      string
	CacheKeys []string
	Path      string // relative to the CRM base URL; may carry a %d userId slot
	Timeout   time.Duration
	Cap       int
	RecentCap int    // orders only: display subset of the full set
	WrapField string // field name when the payload wraps the array
}

type Config struct {
	BaseURL    string
	Partners   DatasetQuery
	Products   DatasetQuery
	Leads      DatasetQuery
	Activities DatasetQuery
	Orders     DatasetQuery
}

// LoadConfig fixes the per-dataset acquisition policy. The cache key order
// is significant: newer producers write the earlier formats, and the first
// non-empty hit wins.
func LoadConfig(baseURL string) *Config {
	return &Config{
		BaseURL: baseURL,
		Partners: DatasetQuery{
			Name: "partners",
			CacheKeys: []string{
				"parceiros:list:1:50:::",
				"parceiros:list:1:20:::",
				"parceiros:list:1:10:::",
			},
			Path:      "/api/sankhya/parceiros?page=1&pageSize=15",
			Timeout:   8 * time.Second,
			Cap:       15,
			WrapField: "parceiros",
		},
		Products: DatasetQuery{
			Name: "products",
			CacheKeys: []string{
				"produtos:list:all",
				"produtos:list:1:50::",
				"produtos:list:1:100::",
				"produtos:list:1:20::",
			},
			Path:      "/api/sankhya/produtos?page=1&pageSize=20",
			Timeout:   8 * time.Second,
			Cap:       20,
			WrapField: "produtos",
		},
		Leads: DatasetQuery{
			Name:    "leads",
			Path:    "/api/leads",
			Timeout: 8 * time.Second,
			Cap:     10,
		},
		Activities: DatasetQuery{
			Name:    "activities",
			Path:    "/api/leads/atividades?ativo=S",
			Timeout: 6 * time.Second,
			Cap:     15,
		},
		Orders: DatasetQuery{
			Name:      "orders",
			Path:      "/api/sankhya/pedidos/listar?userId=%d",
			Timeout:   6 * time.Second,
			Cap:       5,
			RecentCap: 5,
			WrapField: "pedidos",
		},
	}
}
