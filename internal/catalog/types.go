// Package catalog is the SQLite-backed store for games, votes, comments,
// reports and users. JSON field names follow the public API contract.
package catalog

import "context"

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type Game struct {
	ID               int64    `json:"id"`
	Nombre           string   `json:"nombre"`
	Descripcion      string   `json:"descripcion"`
	FechaLanzamiento *string  `json:"fecha_lanzamiento"`
	Compania         *string  `json:"compania"`
	CategoriaIDs     []string `json:"categoria_ids"`
	PlataformaIDs    []string `json:"plataforma_ids"`
	Precio           float64  `json:"precio"`
	Portada          *string  `json:"portada"`
	Video            *string  `json:"video"`
	OwnerID          int64    `json:"owner_id"`
	CreatedAt        string   `json:"created_at"`
	OwnerUsername    string   `json:"owner_username,omitempty"`
	Likes            int      `json:"likes"`
	Dislikes         int      `json:"dislikes"`
	Popularidad      int      `json:"popularidad"`
	MyVote           *string  `json:"my_vote"`
}

type Comment struct {
	ID              int64  `json:"id"`
	GameID          int64  `json:"game_id"`
	UserID          int64  `json:"user_id"`
	ParentCommentID *int64 `json:"parent_comment_id"`
	Content         string `json:"content"`
	CreatedAt       string `json:"created_at"`
	Username        string `json:"username"`
	RepliesCount    int    `json:"replies_count"`
}

type VoteTotals struct {
	GameID      int64  `json:"gameId"`
	Likes       int    `json:"likes"`
	Dislikes    int    `json:"dislikes"`
	Popularidad int    `json:"popularidad"`
	MyVote      string `json:"my_vote"`
}

type ReportSummary struct {
	ID            int64   `json:"id"`
	Nombre        string  `json:"nombre"`
	Portada       *string `json:"portada"`
	TotalReports  int     `json:"total_reports"`
	FirstReportAt string  `json:"first_report_at"`
	LastReportAt  string  `json:"last_report_at"`
}

type ListOptions struct {
	Page     int
	Limit    int
	Sort     string // "popularidad" selects popularity order, anything else id desc
	ViewerID int64  // 0 when anonymous; fills my_vote
	OwnerID  int64  // 0 lists all owners
}

type CreateGameInput struct {
	Nombre           string
	Descripcion      string
	FechaLanzamiento *string
	Compania         *string
	CategoriaIDs     []string
	PlataformaIDs    []string
	Precio           float64
	Portada          *string
	Video            *string
	OwnerID          int64
}

type CreateCommentInput struct {
	GameID          int64
	UserID          int64
	ParentCommentID *int64
	Content         string
}

type CreateUserInput struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
}

// Actor identifies who performs a mutation, for ownership checks.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == "admin" }

// API is the store surface the HTTP layer depends on.
type API interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	ListGames(ctx context.Context, opts ListOptions) ([]Game, int, error)
	GetGame(ctx context.Context, id, viewerID int64) (*Game, error)
	CreateGame(ctx context.Context, in CreateGameInput) (*Game, error)
	DeleteGame(ctx context.Context, id int64, actor Actor) error

	Vote(ctx context.Context, gameID, userID int64, voteType string) (*VoteTotals, error)
	ListComments(ctx context.Context, gameID int64) ([]Comment, error)
	CreateComment(ctx context.Context, in CreateCommentInput) (*Comment, error)
	DeleteComment(ctx context.Context, id int64, actor Actor) error
	ReportGame(ctx context.Context, gameID, userID int64, reason string) error
	ListReportedGames(ctx context.Context) ([]ReportSummary, error)

	AssistantSnapshot(ctx context.Context) ([]Game, error)
}
