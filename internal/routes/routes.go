package routes

import (
	"movieflix-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything Setup mounts.
type Handlers struct {
	Movie     *handlers.MovieHandler
	Auth      *handlers.AuthHandler
	Watchlist *handlers.WatchlistHandler
	Admin     *handlers.AdminHandler
	Upload    *handlers.UploadHandler
}

// Guards are the middleware chains placed in front of protected routes.
type Guards struct {
	User       fiber.Handler
	Admin      fiber.Handler
	AdminLimit fiber.Handler
	LoginLimit fiber.Handler
}

func Setup(app *fiber.App, h Handlers, g Guards) {
	// API versioning
	api := app.Group("/api")
	v1 := api.Group("/v1")

	authRoutes := v1.Group("/auth")
	{
		authRoutes.Post("/signup", h.Auth.Signup)
		authRoutes.Post("/login", g.LoginLimit, h.Auth.Login)
		authRoutes.Get("/user", g.User, h.Auth.GetUser)
		authRoutes.Put("/update", g.User, h.Auth.UpdateProfile)
	}

	// Catalog routes, reads are public and mutations are admin only
	catalog := v1.Group("/catalog")
	{
		catalog.Get("/", h.Movie.GetAllMovies)
		catalog.Get("/search", h.Movie.SearchMovies)
		catalog.Get("/genres", h.Movie.ListGenres)
		catalog.Get("/category/:category", h.Movie.ListByCategory)
		catalog.Get("/:id", h.Movie.GetMovieByID)
		catalog.Post("/", g.Admin, g.AdminLimit, h.Movie.CreateMovie)
		catalog.Put("/:id", g.Admin, g.AdminLimit, h.Movie.UpdateMovie)
		catalog.Delete("/:id", g.Admin, g.AdminLimit, h.Movie.DeleteMovie)
	}

	watchlist := v1.Group("/watchlist", g.User)
	{
		watchlist.Get("/", h.Watchlist.GetWatchlist)
		watchlist.Get("/check/:itemId", h.Watchlist.CheckWatchlist)
		watchlist.Post("/:itemId", h.Watchlist.AddToWatchlist)
		watchlist.Put("/:itemId/watched", h.Watchlist.MarkWatched)
		watchlist.Put("/:itemId", h.Watchlist.UpdateWatchlistEntry)
		watchlist.Delete("/:itemId", h.Watchlist.RemoveFromWatchlist)
	}

	admin := v1.Group("/admin", g.Admin, g.AdminLimit)
	{
		admin.Get("/users", h.Admin.ListUsers)
		admin.Patch("/users/:id/role", h.Admin.ChangeRole)
		admin.Delete("/users/:id", h.Admin.DeleteUser)
		admin.Get("/stats", h.Admin.GetStats)
		admin.Get("/audit", h.Admin.GetAuditTrail)
	}

	// Posters are admin only; any signed-in user may upload an avatar
	upload := v1.Group("/upload")
	{
		upload.Get("/presign", g.Admin, g.AdminLimit, h.Upload.GetPresignedURL)
		upload.Get("/avatar", g.User, h.Upload.GetAvatarURL)
	}
}
