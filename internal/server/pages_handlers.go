package server

import "github.com/gofiber/fiber/v2"

// staticPages are the informational pages with no logic behind them.
var staticPages = []string{
	"sobre", "contato", "privacidade", "artigos", "dicas", "novidades", "termos",
}

// StaticPage returns a handler identifying the requested static page.
func (s *Server) StaticPage(page string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"page": page})
	}
}
