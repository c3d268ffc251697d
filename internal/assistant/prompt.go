package assistant

import (
	"fmt"
	"strings"
)

const descriptionLimit = 70

// systemPreamble whitelists exactly the candidate pool as permitted ground
// truth and fixes the refusal sentence the model must use for anything else.
func systemPreamble(pool []Game) string {
	return fmt.Sprintf(`Eres un asistente de videojuegos para esta aplicación.
Reglas obligatorias:
1) SOLO puedes responder sobre videojuegos que aparecen en la base de datos proporcionada.
2) Si la pregunta no trata de esos videojuegos o pide información externa, responde exactamente: "%s".
3) No inventes juegos, precios, características ni fechas.
4) Si recomiendas juegos, justifica con datos de la base actual (popularidad, precio, compañía, descripción, plataformas/categorías).
5) Responde en español de forma breve y clara.

Base de datos actual de videojuegos:
%s`, MsgOutOfScope, gamesContext(pool))
}

func rescuePreamble(pool []Game) string {
	return systemPreamble(pool) +
		"\n\nEn tu respuesta debes nombrar exactamente un videojuego de la lista anterior, ninguno más."
}

func gamesContext(pool []Game) string {
	lines := make([]string, 0, len(pool))
	for _, g := range pool {
		fields := []string{
			fmt.Sprintf("ID: %d", g.ID),
			"Nombre: " + g.Nombre,
			"Descripción: " + truncateRunes(orUnavailable(g.Descripcion), descriptionLimit),
			"Compañía: " + orUnavailable(g.Compania),
			"Fecha lanzamiento: " + orUnavailable(g.FechaLanzamiento),
			fmt.Sprintf("Precio: %.2f", g.Precio),
			"Categorías: " + orUnavailable(strings.Join(g.Categorias, ", ")),
			"Plataformas: " + orUnavailable(strings.Join(g.Plataformas, ", ")),
			fmt.Sprintf("Likes: %d | Dislikes: %d | Popularidad: %d", g.Likes, g.Dislikes, g.Popularidad()),
		}
		lines = append(lines, strings.Join(fields, " | "))
	}
	return strings.Join(lines, "\n")
}

func orUnavailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return "No disponible"
	}
	return s
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
