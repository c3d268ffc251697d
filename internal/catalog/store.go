package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'user',
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS games (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	nombre            TEXT NOT NULL,
	descripcion       TEXT NOT NULL,
	fecha_lanzamiento TEXT,
	compania          TEXT,
	categoria_ids     TEXT NOT NULL,
	plataforma_ids    TEXT NOT NULL,
	precio            REAL NOT NULL,
	portada           TEXT,
	video             TEXT,
	owner_id          INTEGER NOT NULL,
	created_at        TEXT NOT NULL,
	FOREIGN KEY(owner_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS game_votes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id    INTEGER NOT NULL,
	user_id    INTEGER NOT NULL,
	vote_type  TEXT NOT NULL CHECK (vote_type IN ('like', 'dislike')),
	created_at TEXT NOT NULL,
	UNIQUE(game_id, user_id),
	FOREIGN KEY(game_id) REFERENCES games(id) ON DELETE CASCADE,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS game_comments (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id           INTEGER NOT NULL,
	user_id           INTEGER NOT NULL,
	parent_comment_id INTEGER,
	content           TEXT NOT NULL,
	created_at        TEXT NOT NULL,
	FOREIGN KEY(game_id) REFERENCES games(id) ON DELETE CASCADE,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
	FOREIGN KEY(parent_comment_id) REFERENCES game_comments(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS game_reports (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id    INTEGER NOT NULL,
	user_id    INTEGER NOT NULL,
	reason     TEXT,
	created_at TEXT NOT NULL,
	UNIQUE(game_id, user_id),
	FOREIGN KEY(game_id) REFERENCES games(id) ON DELETE CASCADE,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
`

// Store implements API on a SQLite database. A single connection plus WAL
// keeps writes serialized without application-level locking.
type Store struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Fixed-width millisecond timestamps sort lexically, which the comment and
// report orderings rely on.
func nowString() string { return time.Now().UTC().Format("2006-01-02T15:04:05.000Z") }

// EnsureAdmin creates the admin account when no user with that email exists.
func (s *Store) EnsureAdmin(ctx context.Context, username, email, passwordHash string) error {
	var id int64
	err := s.db.GetContext(ctx, &id, "SELECT id FROM users WHERE email = ?", email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lookup admin: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, created_at) VALUES (?, ?, ?, 'admin', ?)",
		username, email, passwordHash, nowString())
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" || in.PasswordHash == "" {
		return nil, errValidation("username, email y password son obligatorios")
	}
	role := in.Role
	if role == "" {
		role = "user"
	}
	var existing int64
	err := s.db.GetContext(ctx, &existing, "SELECT id FROM users WHERE email = ? OR username = ?", in.Email, in.Username)
	if err == nil {
		return nil, errConflict("El usuario o email ya existe")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)",
		in.Username, in.Email, in.PasswordHash, role, nowString())
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user id: %w", err)
	}
	return s.getUserByID(ctx, id)
}

type userRow struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	CreatedAt    string `db:"created_at"`
}

func (r userRow) toUser() *User {
	return &User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		Role:         r.Role,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

func (s *Store) getUserByID(ctx context.Context, id int64) (*User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row,
		"SELECT id, username, email, password_hash, role, created_at FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound("Usuario no encontrado")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return row.toUser(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row,
		"SELECT id, username, email, password_hash, role, created_at FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound("Usuario no encontrado")
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return row.toUser(), nil
}

// --- games ---

type gameRow struct {
	ID               int64          `db:"id"`
	Nombre           string         `db:"nombre"`
	Descripcion      string         `db:"descripcion"`
	FechaLanzamiento sql.NullString `db:"fecha_lanzamiento"`
	Compania         sql.NullString `db:"compania"`
	CategoriaIDs     string         `db:"categoria_ids"`
	PlataformaIDs    string         `db:"plataforma_ids"`
	Precio           float64        `db:"precio"`
	Portada          sql.NullString `db:"portada"`
	Video            sql.NullString `db:"video"`
	OwnerID          int64          `db:"owner_id"`
	CreatedAt        string         `db:"created_at"`
	OwnerUsername    string         `db:"owner_username"`
	Likes            int            `db:"likes"`
	Dislikes         int            `db:"dislikes"`
	Popularidad      int            `db:"popularidad"`
	MyVote           sql.NullString `db:"my_vote"`
}

func (r gameRow) toGame() Game {
	g := Game{
		ID:            r.ID,
		Nombre:        r.Nombre,
		Descripcion:   r.Descripcion,
		Precio:        r.Precio,
		OwnerID:       r.OwnerID,
		CreatedAt:     r.CreatedAt,
		OwnerUsername: r.OwnerUsername,
		Likes:         r.Likes,
		Dislikes:      r.Dislikes,
		Popularidad:   r.Popularidad,
		CategoriaIDs:  decodeIDList(r.CategoriaIDs),
		PlataformaIDs: decodeIDList(r.PlataformaIDs),
	}
	g.FechaLanzamiento = nullableString(r.FechaLanzamiento)
	g.Compania = nullableString(r.Compania)
	g.Portada = nullableString(r.Portada)
	g.Video = nullableString(r.Video)
	g.MyVote = nullableString(r.MyVote)
	return g
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	v := ns.String
	return &v
}

func decodeIDList(raw string) []string {
	ids := []string{}
	if strings.TrimSpace(raw) == "" {
		return ids
	}
	_ = json.Unmarshal([]byte(raw), &ids)
	return ids
}

func encodeIDList(ids []string) string {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(b)
}

const gameSelect = `SELECT g.id, g.nombre, g.descripcion, g.fecha_lanzamiento, g.compania,
	g.categoria_ids, g.plataforma_ids, g.precio, g.portada, g.video, g.owner_id, g.created_at,
	u.username AS owner_username,
	COALESCE(SUM(CASE WHEN gv.vote_type = 'like' THEN 1 ELSE 0 END), 0) AS likes,
	COALESCE(SUM(CASE WHEN gv.vote_type = 'dislike' THEN 1 ELSE 0 END), 0) AS dislikes,
	COALESCE(SUM(CASE WHEN gv.vote_type = 'like' THEN 1 WHEN gv.vote_type = 'dislike' THEN -1 ELSE 0 END), 0) AS popularidad,
	MAX(CASE WHEN gv.user_id = ? THEN gv.vote_type ELSE NULL END) AS my_vote
	FROM games g
	JOIN users u ON u.id = g.owner_id
	LEFT JOIN game_votes gv ON gv.game_id = g.id`

func (s *Store) ListGames(ctx context.Context, opts ListOptions) ([]Game, int, error) {
	limit, offset := normalizePagination(opts.Page, opts.Limit)

	where := ""
	countArgs := []any{}
	if opts.OwnerID != 0 {
		where = " WHERE g.owner_id = ?"
		countArgs = append(countArgs, opts.OwnerID)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM games g"+where, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	orderBy := " ORDER BY g.id DESC"
	if opts.Sort == "popularidad" {
		orderBy = " ORDER BY popularidad DESC, g.id DESC"
	}

	args := []any{opts.ViewerID}
	args = append(args, countArgs...)
	args = append(args, limit, offset)
	query := gameSelect + where + " GROUP BY g.id, u.username" + orderBy + " LIMIT ? OFFSET ?"

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		var r gameRow
		if err := rows.StructScan(&r); err != nil {
			return nil, 0, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, r.toGame())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list games rows: %w", err)
	}
	return games, total, nil
}

func (s *Store) GetGame(ctx context.Context, id, viewerID int64) (*Game, error) {
	var r gameRow
	err := s.db.GetContext(ctx, &r, gameSelect+" WHERE g.id = ? GROUP BY g.id, u.username", viewerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound("Videojuego no encontrado")
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	g := r.toGame()
	return &g, nil
}

func (s *Store) CreateGame(ctx context.Context, in CreateGameInput) (*Game, error) {
	if strings.TrimSpace(in.Nombre) == "" || strings.TrimSpace(in.Descripcion) == "" {
		return nil, errValidation("nombre, descripcion y precio son obligatorios")
	}
	if in.Precio < 0 {
		return nil, errValidation("precio debe ser un número no negativo")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO games
		(nombre, descripcion, fecha_lanzamiento, compania, categoria_ids, plataforma_ids, precio, portada, video, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Nombre, in.Descripcion, in.FechaLanzamiento, in.Compania,
		encodeIDList(in.CategoriaIDs), encodeIDList(in.PlataformaIDs),
		in.Precio, in.Portada, in.Video, in.OwnerID, nowString())
	if err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert game id: %w", err)
	}
	return s.GetGame(ctx, id, in.OwnerID)
}

func (s *Store) DeleteGame(ctx context.Context, id int64, actor Actor) error {
	var ownerID int64
	err := s.db.GetContext(ctx, &ownerID, "SELECT owner_id FROM games WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound("Videojuego no encontrado")
	}
	if err != nil {
		return fmt.Errorf("get game owner: %w", err)
	}
	if ownerID != actor.UserID && !actor.IsAdmin() {
		return errForbidden("No tienes permiso para eliminar este videojuego")
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

// --- votes ---

func (s *Store) Vote(ctx context.Context, gameID, userID int64, voteType string) (*VoteTotals, error) {
	if voteType != "like" && voteType != "dislike" {
		return nil, errValidation("voteType debe ser like o dislike")
	}
	if err := s.requireGame(ctx, gameID); err != nil {
		return nil, err
	}
	var existing int64
	err := s.db.GetContext(ctx, &existing,
		"SELECT id FROM game_votes WHERE game_id = ? AND user_id = ?", gameID, userID)
	if err == nil {
		return nil, errConflict("Ya has votado este videojuego")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup vote: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO game_votes (game_id, user_id, vote_type, created_at) VALUES (?, ?, ?, ?)",
		gameID, userID, voteType, nowString()); err != nil {
		return nil, fmt.Errorf("insert vote: %w", err)
	}

	var totals struct {
		Likes    int `db:"likes"`
		Dislikes int `db:"dislikes"`
	}
	if err := s.db.GetContext(ctx, &totals,
		`SELECT
			COALESCE(SUM(CASE WHEN vote_type = 'like' THEN 1 ELSE 0 END), 0) AS likes,
			COALESCE(SUM(CASE WHEN vote_type = 'dislike' THEN 1 ELSE 0 END), 0) AS dislikes
		FROM game_votes WHERE game_id = ?`, gameID); err != nil {
		return nil, fmt.Errorf("vote totals: %w", err)
	}
	return &VoteTotals{
		GameID:      gameID,
		Likes:       totals.Likes,
		Dislikes:    totals.Dislikes,
		Popularidad: totals.Likes - totals.Dislikes,
		MyVote:      voteType,
	}, nil
}

// --- comments ---

type commentRow struct {
	ID              int64         `db:"id"`
	GameID          int64         `db:"game_id"`
	UserID          int64         `db:"user_id"`
	ParentCommentID sql.NullInt64 `db:"parent_comment_id"`
	Content         string        `db:"content"`
	CreatedAt       string        `db:"created_at"`
	Username        string        `db:"username"`
	RepliesCount    int           `db:"replies_count"`
}

func (r commentRow) toComment() Comment {
	c := Comment{
		ID:           r.ID,
		GameID:       r.GameID,
		UserID:       r.UserID,
		Content:      r.Content,
		CreatedAt:    r.CreatedAt,
		Username:     r.Username,
		RepliesCount: r.RepliesCount,
	}
	if r.ParentCommentID.Valid {
		v := r.ParentCommentID.Int64
		c.ParentCommentID = &v
	}
	return c
}

const commentSelect = `SELECT c.id, c.game_id, c.user_id, c.parent_comment_id, c.content, c.created_at,
	u.username,
	(SELECT COUNT(*) FROM game_comments replies WHERE replies.parent_comment_id = c.id) AS replies_count
	FROM game_comments c
	JOIN users u ON u.id = c.user_id`

func (s *Store) ListComments(ctx context.Context, gameID int64) ([]Comment, error) {
	if err := s.requireGame(ctx, gameID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryxContext(ctx, commentSelect+" WHERE c.game_id = ? ORDER BY c.created_at ASC, c.id ASC", gameID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var r commentRow
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, r.toComment())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments rows: %w", err)
	}
	return comments, nil
}

func (s *Store) CreateComment(ctx context.Context, in CreateCommentInput) (*Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, errValidation("El comentario es obligatorio")
	}
	if err := s.requireGame(ctx, in.GameID); err != nil {
		return nil, err
	}
	if in.ParentCommentID != nil {
		var parentGameID int64
		err := s.db.GetContext(ctx, &parentGameID,
			"SELECT game_id FROM game_comments WHERE id = ?", *in.ParentCommentID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && parentGameID != in.GameID) {
			return nil, errValidation("Comentario padre inválido")
		}
		if err != nil {
			return nil, fmt.Errorf("lookup parent comment: %w", err)
		}
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO game_comments (game_id, user_id, parent_comment_id, content, created_at) VALUES (?, ?, ?, ?, ?)",
		in.GameID, in.UserID, in.ParentCommentID, strings.TrimSpace(in.Content), nowString())
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert comment id: %w", err)
	}
	var r commentRow
	if err := s.db.GetContext(ctx, &r, commentSelect+" WHERE c.id = ?", id); err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	c := r.toComment()
	return &c, nil
}

func (s *Store) DeleteComment(ctx context.Context, id int64, actor Actor) error {
	var ownerID int64
	err := s.db.GetContext(ctx, &ownerID, "SELECT user_id FROM game_comments WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound("Comentario no encontrado")
	}
	if err != nil {
		return fmt.Errorf("get comment owner: %w", err)
	}
	isOwner := ownerID == actor.UserID
	if !isOwner && !actor.IsAdmin() {
		return errForbidden("No tienes permiso para eliminar este comentario")
	}
	if isOwner && !actor.IsAdmin() {
		var replies int
		if err := s.db.GetContext(ctx, &replies,
			"SELECT COUNT(*) FROM game_comments WHERE parent_comment_id = ?", id); err != nil {
			return fmt.Errorf("count replies: %w", err)
		}
		if replies > 0 {
			return errConflict("No puedes eliminar tu comentario porque tiene respuestas")
		}
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM game_comments WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// --- reports ---

func (s *Store) ReportGame(ctx context.Context, gameID, userID int64, reason string) error {
	if err := s.requireGame(ctx, gameID); err != nil {
		return err
	}
	var existing int64
	err := s.db.GetContext(ctx, &existing,
		"SELECT id FROM game_reports WHERE game_id = ? AND user_id = ?", gameID, userID)
	if err == nil {
		return errConflict("Ya has reportado este videojuego")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lookup report: %w", err)
	}
	var reasonValue any
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		reasonValue = trimmed
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO game_reports (game_id, user_id, reason, created_at) VALUES (?, ?, ?, ?)",
		gameID, userID, reasonValue, nowString()); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *Store) ListReportedGames(ctx context.Context) ([]ReportSummary, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT g.id, g.nombre, g.portada,
			COUNT(r.id) AS total_reports,
			MIN(r.created_at) AS first_report_at,
			MAX(r.created_at) AS last_report_at
		FROM game_reports r
		JOIN games g ON g.id = r.game_id
		GROUP BY g.id, g.nombre, g.portada
		ORDER BY total_reports DESC, last_report_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	summaries := []ReportSummary{}
	for rows.Next() {
		var r struct {
			ID            int64          `db:"id"`
			Nombre        string         `db:"nombre"`
			Portada       sql.NullString `db:"portada"`
			TotalReports  int            `db:"total_reports"`
			FirstReportAt string         `db:"first_report_at"`
			LastReportAt  string         `db:"last_report_at"`
		}
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		summaries = append(summaries, ReportSummary{
			ID:            r.ID,
			Nombre:        r.Nombre,
			Portada:       nullableString(r.Portada),
			TotalReports:  r.TotalReports,
			FirstReportAt: r.FirstReportAt,
			LastReportAt:  r.LastReportAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports rows: %w", err)
	}
	return summaries, nil
}

// --- assistant snapshot ---

// AssistantSnapshot returns up to 25 games ordered by popularity desc, id
// asc: the read-only input of the assistant pipeline.
func (s *Store) AssistantSnapshot(ctx context.Context) ([]Game, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT g.id, g.nombre, g.descripcion, g.fecha_lanzamiento, g.compania,
			g.categoria_ids, g.plataforma_ids, g.precio, g.portada, g.video, g.owner_id, g.created_at,
			'' AS owner_username,
			COALESCE(SUM(CASE WHEN gv.vote_type = 'like' THEN 1 ELSE 0 END), 0) AS likes,
			COALESCE(SUM(CASE WHEN gv.vote_type = 'dislike' THEN 1 ELSE 0 END), 0) AS dislikes,
			COALESCE(SUM(CASE WHEN gv.vote_type = 'like' THEN 1 WHEN gv.vote_type = 'dislike' THEN -1 ELSE 0 END), 0) AS popularidad,
			NULL AS my_vote
		FROM games g
		LEFT JOIN game_votes gv ON gv.game_id = g.id
		GROUP BY g.id
		ORDER BY popularidad DESC, g.id ASC
		LIMIT 25`)
	if err != nil {
		return nil, fmt.Errorf("assistant snapshot: %w", err)
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		var r gameRow
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("scan snapshot game: %w", err)
		}
		games = append(games, r.toGame())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("assistant snapshot rows: %w", err)
	}
	return games, nil
}

func (s *Store) requireGame(ctx context.Context, id int64) error {
	var found int64
	err := s.db.GetContext(ctx, &found, "SELECT id FROM games WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound("Videojuego no encontrado")
	}
	if err != nil {
		return fmt.Errorf("lookup game: %w", err)
	}
	return nil
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return limit, (page - 1) * limit
}

// Ensure Store satisfies the API interface at compile time.
var _ API = (*Store)(nil)
