package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/CatalogGo/internal/service"
	"github.com/utafrali/CatalogGo/pkg/health"
	"github.com/utafrali/CatalogGo/pkg/middleware"
)

// RouterConfig bundles the services and infrastructure a router needs.
type RouterConfig struct {
	BrandService    *service.BrandService
	CategoryService *service.CategoryService
	ProductService  *service.ProductService
	VariantService  *service.VariantService
	ImageService    *service.ImageService
	HealthHandler   *health.Handler
	CORS            middleware.CORSConfig
	PprofCIDRs      []string
	Logger          *slog.Logger
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("catalog"))
	r.Use(middleware.Tracing("catalog"))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	brandHandler := NewBrandHandler(cfg.BrandService, cfg.Logger)
	categoryHandler := NewCategoryHandler(cfg.CategoryService, cfg.Logger)
	productHandler := NewProductHandler(cfg.ProductService, cfg.Logger)
	variantHandler := NewVariantHandler(cfg.VariantService, cfg.Logger)
	imageHandler := NewImageHandler(cfg.ImageService, cfg.Logger)

	r.Route("/api/v1/brands", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", brandHandler.ListBrands)
		r.Get("/{idOrSlug}", brandHandler.GetBrand)
		r.Post("/", brandHandler.CreateBrand)
		r.Put("/{id}", brandHandler.UpdateBrand)
		r.Post("/{id}/activate", brandHandler.ActivateBrand)
		r.Post("/{id}/deactivate", brandHandler.DeactivateBrand)
		r.Delete("/{id}", brandHandler.DeleteBrand)
	})

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", categoryHandler.ListCategories)
		r.Get("/{idOrSlug}", categoryHandler.GetCategory)
		r.Post("/", categoryHandler.CreateCategory)
		r.Put("/{id}", categoryHandler.UpdateCategory)
		r.Post("/{id}/activate", categoryHandler.ActivateCategory)
		r.Post("/{id}/deactivate", categoryHandler.DeactivateCategory)
		r.Delete("/{id}", categoryHandler.DeleteCategory)
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Get("/{idOrSlug}", productHandler.GetProduct)
		r.Post("/", productHandler.CreateProduct)
		r.Put("/{id}", productHandler.UpdateProduct)
		r.Post("/{id}/publish", productHandler.PublishProduct)
		r.Post("/{id}/archive", productHandler.ArchiveProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)

		// Nested variant and image collections
		r.Get("/{productId}/variants", variantHandler.ListVariants)
		r.Post("/{productId}/variants", variantHandler.CreateVariant)
		r.Get("/{productId}/images", imageHandler.ListProductImages)
		r.Post("/{productId}/images", imageHandler.AttachProductImage)
	})

	r.Route("/api/v1/variants", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/{id}", variantHandler.GetVariant)
		r.Put("/{id}", variantHandler.UpdateVariant)
		r.Post("/{id}/publish", variantHandler.PublishVariant)
		r.Post("/{id}/unpublish", variantHandler.UnpublishVariant)
		r.Delete("/{id}", variantHandler.DeleteVariant)

		r.Get("/{id}/discounts", variantHandler.ListDiscounts)
		r.Post("/{id}/discounts", variantHandler.AttachDiscount)
		r.Delete("/{id}/discounts/{discountId}", variantHandler.RemoveDiscount)

		r.Get("/{id}/images", imageHandler.ListVariantImages)
		r.Post("/{id}/images", imageHandler.AttachVariantImage)
	})

	r.Route("/api/v1/images", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Put("/{id}", imageHandler.UpdateImage)
		r.Delete("/{id}", imageHandler.DeleteImage)
	})

	return r
}
