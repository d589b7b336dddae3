package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"gorm.io/gorm"

	"github.com/example/catalogadmin/internal/cache"
	"github.com/example/catalogadmin/internal/config"
	"github.com/example/catalogadmin/internal/events"
	"github.com/example/catalogadmin/internal/handlers"
	"github.com/example/catalogadmin/internal/middleware"
	"github.com/example/catalogadmin/internal/views"
)

// Deps are the shared services the routes are wired to.
type Deps struct {
	DB     *gorm.DB
	Cache  cache.Cache
	Hub    *events.Hub
	Tokens middleware.TokenParser
}

// NewApp builds the fiber app with the dashboard view engine and the common middleware.
func NewApp(cfg *config.Config) *fiber.App {
	engine := html.NewFileSystem(http.FS(views.FS), ".html")

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	return app
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, cfg *config.Config, deps Deps) {
	auth := middleware.WithAuth

	storeHandler := handlers.NewStoreHandler(deps.DB, deps.Cache, deps.Hub)
	blogHandler := handlers.NewBlogHandler(deps.DB, deps.Cache, deps.Hub)
	brandHandler := handlers.NewBrandHandler(deps.DB, deps.Cache, deps.Hub)
	categoryHandler := handlers.NewCategoryHandler(deps.DB, deps.Cache, deps.Hub)
	productHandler := handlers.NewProductHandler(deps.DB, deps.Cache, deps.Hub)
	uploadHandler := handlers.NewUploadHandler(deps.DB, cfg.UploadDir)
	dashboardHandler := handlers.NewDashboardHandler(deps.DB)

	app.Get("/health", health(deps.DB))
	app.Get("/ws", adaptor.HTTPHandler(deps.Hub))
	app.Static("/uploads", cfg.UploadDir)

	app.Use(middleware.Identify(deps.Tokens))

	api := app.Group("/api")

	// Stores
	stores := api.Group("/stores")
	stores.Post("/", auth(storeHandler.CreateStore))
	stores.Get("/", auth(storeHandler.ListStores))
	stores.Get("/:storeId", auth(storeHandler.GetStore))
	stores.Patch("/:storeId", auth(storeHandler.UpdateStore))
	stores.Delete("/:storeId", auth(storeHandler.DeleteStore))

	store := api.Group("/:storeId")

	blog := store.Group("/blog")
	blog.Get("/", blogHandler.ListBlogs)
	blog.Post("/", auth(blogHandler.CreateBlog))
	blog.Get("/:slug", blogHandler.GetBlog)
	blog.Patch("/:slug", auth(blogHandler.UpdateBlog))
	blog.Delete("/:slug", auth(blogHandler.DeleteBlog))

	brands := store.Group("/brands")
	brands.Get("/", brandHandler.ListBrands)
	brands.Post("/", auth(brandHandler.CreateBrand))
	brands.Get("/:slug", brandHandler.GetBrand)
	brands.Patch("/:slug", auth(brandHandler.UpdateBrand))
	brands.Delete("/:slug", auth(brandHandler.DeleteBrand))

	categories := store.Group("/categories")
	categories.Get("/", categoryHandler.ListCategories)
	categories.Post("/", auth(categoryHandler.CreateCategory))
	categories.Get("/:slug", categoryHandler.GetCategory)
	categories.Patch("/:slug", auth(categoryHandler.UpdateCategory))
	categories.Delete("/:slug", auth(categoryHandler.DeleteCategory))

	products := store.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Post("/", auth(productHandler.CreateProduct))
	products.Get("/:slug", productHandler.GetProduct)
	products.Patch("/:slug", auth(productHandler.UpdateProduct))
	products.Delete("/:slug", auth(productHandler.DeleteProduct))

	store.Post("/uploads", auth(uploadHandler.UploadImage))

	// Dashboard pages
	app.Get("/", auth(dashboardHandler.Index))
	app.Get("/:storeId/blog", auth(dashboardHandler.Blogs))
	app.Get("/:storeId/blog/:slug", auth(dashboardHandler.BlogForm))
	app.Get("/:storeId/brands", auth(dashboardHandler.Brands))
	app.Get("/:storeId/brands/:slug", auth(dashboardHandler.BrandForm))
	app.Get("/:storeId/categories", auth(dashboardHandler.Categories))
	app.Get("/:storeId/categories/:slug", auth(dashboardHandler.CategoryForm))
	app.Get("/:storeId/products", auth(dashboardHandler.Products))
	app.Get("/:storeId/products/:slug", auth(dashboardHandler.ProductForm))
}

func health(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(c.UserContext()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
