// internal/assistant/prompt/config.go
package prompt

// Config fixes the display widths of the rendered context block.
type Config struct {
	ActivityDescWidth int    // chars kept from an activity description
	ProductDescWidth  int    // chars kept from a product description
	MaxProductsListed int    // products listed even when more are available
	ActivityDelimiter string // description is cut before this marker
}

func LoadConfig() *Config {
	return &Config{
		ActivityDescWidth: 50,
		ProductDescWidth:  40,
		MaxProductsListed: 8,
		ActivityDelimiter: "|",
	}
}
