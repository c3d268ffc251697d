package assistant

// Fixed Spanish replies the pipeline is allowed to emit without consulting
// the completion service. The out-of-scope sentence is also the refusal the
// system preamble instructs the model to use verbatim.
const (
	MsgEmptyCatalog = "No hay videojuegos cargados en la base de datos para recomendar."
	MsgOutOfScope   = "Solo puedo responder sobre videojuegos disponibles en esta base de datos."
	MsgNoMatches    = "No encuentro videojuegos de ese tipo en la base de datos actual."
)

const (
	// DefaultPoolLimit bounds the candidate pool handed to the completion
	// service; the deterministic engine works on the full 25-game snapshot.
	DefaultPoolLimit = 8
	// ShortlistLimit is the number of pool items offered in the final-choice
	// numbered menu.
	ShortlistLimit = 5
)

// Game is the request-scoped, read-only view of a catalog row the pipeline
// works on. Category and platform ids are already resolved to display names
// by the caller.
type Game struct {
	ID               int64
	Nombre           string
	Descripcion      string
	Compania         string
	FechaLanzamiento string
	Precio           float64
	Categorias       []string
	Plataformas      []string
	Likes            int
	Dislikes         int
}

// Popularidad is always derived from the vote counts, never stored.
func (g Game) Popularidad() int { return g.Likes - g.Dislikes }

type Intent string

const (
	IntentMostExpensive Intent = "mostExpensive"
	IntentCheapest      Intent = "cheapest"
	IntentWorst         Intent = "worst"
	IntentBest          Intent = "best"
	IntentGeneric       Intent = "generic"
)

type Stage string

const (
	StagePrimary     Stage = "primary"
	StageRetry       Stage = "retry"
	StageRescue      Stage = "rescue"
	StageFinalChoice Stage = "finalChoice"
)

// StageResult is the outcome of one completion stage after sanitizing and
// scope review. An invalid result advances the orchestrator to the next stage.
type StageResult struct {
	Text  string
	Valid bool
}
