package blog

const (
	DefaultPageSize    = 10
	DefaultTitleLength = 30
)

// Config holds presentation constants of the blog
type Config struct {
	// PageSize is the number of posts on a listing page
	PageSize int `json:"page-size" yaml:"page-size"`
	// TitleLength is the number of characters of post text used as its title
	TitleLength int `json:"title-length" yaml:"title-length"`
}
