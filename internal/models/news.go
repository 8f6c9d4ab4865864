package models

// NewsDateLayout is the display layout for NewsItem.Date ("Mar 05, 2024").
const NewsDateLayout = "Jan 02, 2006"

type NewsItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Date  string `json:"date"`
}
