package models

// ScoreFilterType selects how the review score filter reads its value.
type ScoreFilterType string

const (
	ScoreAll      ScoreFilterType = "All"
	ScoreExact    ScoreFilterType = "Exact %"
	ScoreOperator ScoreFilterType = "Operator"
	ScoreLabel    ScoreFilterType = "Label"
)

// DateFilterType selects sorting or date filtering for sale-end and release dates.
type DateFilterType string

const (
	DateAll          DateFilterType = "All"
	DateEndingSoon   DateFilterType = "Ending Soon"
	DateEndingLatest DateFilterType = "Ending Latest"
	DateNewest       DateFilterType = "Newest"
	DateOldest       DateFilterType = "Oldest"
	DateByDate       DateFilterType = "By date"
)

// Criteria is one filter invocation's settings, built from form or request input.
// Zero values mean "no filter".
type Criteria struct {
	ScoreType  ScoreFilterType `json:"score_type,omitempty"`
	ScoreValue string          `json:"score_value,omitempty"`
	Label      string          `json:"label_value,omitempty"`
	MinReviews string          `json:"min_reviews,omitempty"`
	Discount   string          `json:"discount_value,omitempty"`
	Price      string          `json:"price_value,omitempty"`
	Currency   string          `json:"currency,omitempty"`

	SaleEndType  DateFilterType `json:"sale_end_type,omitempty"`
	SaleEndValue string         `json:"sale_end_value,omitempty"`
	ReleaseType  DateFilterType `json:"release_date_type,omitempty"`
	ReleaseValue string         `json:"release_date_value,omitempty"`

	Title     string `json:"title,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Developer string `json:"developer,omitempty"`
	Tags      string `json:"tags,omitempty"`
}

// LabelMinPercent is the minimum percent positive Steam shows for each review label.
var LabelMinPercent = map[string]int{
	"Overwhelmingly Positive": 95,
	"Very Positive":           80,
	"Positive":                70,
	"Mostly Positive":         70,
}

// LabelOrder lists the review labels from best to worst.
var LabelOrder = []string{"Overwhelmingly Positive", "Very Positive", "Positive", "Mostly Positive"}
