package domain

type (
	PostId    = int
	PostTitle = string
	PostBody  = string
	PageId    = string
)

// PageIdParam is the route parameter every post page is keyed by.
const PageIdParam = "pageId"
