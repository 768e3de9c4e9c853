package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/etczermerivil/Stay-Scape/internal/api/handlers"
	"github.com/etczermerivil/Stay-Scape/internal/auth"
	"github.com/etczermerivil/Stay-Scape/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	allowedOrigin string,
	userService services.UserServiceProvider,
	spotService services.SpotServiceProvider,
	reviewService services.ReviewServiceProvider,
	bookingService services.BookingServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	spotHandler := handlers.NewSpotHandler(spotService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	imageHandler := handlers.NewImageHandler(spotService, reviewService)
	eventHandler := handlers.NewEventHandler(eventService)

	requireAuth := auth.JWTMiddleware()

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", userHandler.Signup)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", userHandler.Restore)
			r.Post("/", userHandler.Login)
			r.Delete("/", userHandler.Logout)
		})

		r.Route("/spots", func(r chi.Router) {
			r.Get("/", spotHandler.GetAll)
			r.With(requireAuth).Post("/", spotHandler.Create)
			r.With(requireAuth).Get("/current", spotHandler.GetCurrent)

			r.Route("/{spotId}", func(r chi.Router) {
				r.Get("/", spotHandler.Get)
				r.With(requireAuth).Put("/", spotHandler.Update)
				r.With(requireAuth).Delete("/", spotHandler.Delete)
				r.With(requireAuth).Post("/images", spotHandler.AddImage)

				r.Get("/reviews", reviewHandler.GetAllForSpot)
				r.With(requireAuth).Post("/reviews", reviewHandler.Create)

				r.With(requireAuth).Get("/bookings", bookingHandler.GetAllForSpot)
				r.With(requireAuth).Post("/bookings", bookingHandler.Create)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/current", reviewHandler.GetCurrent)
			r.Put("/{reviewId}", reviewHandler.Update)
			r.Delete("/{reviewId}", reviewHandler.Delete)
			r.Post("/{reviewId}/images", reviewHandler.AddImage)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/current", bookingHandler.GetCurrent)
			r.Put("/{bookingId}", bookingHandler.Update)
			r.Delete("/{bookingId}", bookingHandler.Delete)
		})

		r.With(requireAuth).Get("/events", eventHandler.GetRecent)

		r.With(requireAuth).Delete("/spot-images/{imageId}", imageHandler.DeleteSpotImage)
		r.With(requireAuth).Delete("/review-images/{imageId}", imageHandler.DeleteReviewImage)
	})

	return r
}
