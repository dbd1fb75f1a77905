package dto

// CreateKnowledgeRequest creates a knowledge base entry.
type CreateKnowledgeRequest struct {
	Title       string   `json:"title" binding:"required"`
	Content     string   `json:"content" binding:"required"`
	Type        string   `json:"type" binding:"required"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

// UpdateKnowledgeRequest updates a knowledge base entry.
type UpdateKnowledgeRequest struct {
	Title       *string  `json:"title"`
	Content     *string  `json:"content"`
	Type        *string  `json:"type"`
	Tags        []string `json:"tags"`
	Description *string  `json:"description"`
}

// KnowledgeQuery filters the knowledge list.
type KnowledgeQuery struct {
	Page    int    `form:"page,default=1"`
	PerPage int    `form:"per_page,default=10"`
	Search  string `form:"search"`
	Type    string `form:"type"`
}

func (q *KnowledgeQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = 10
	}
}
