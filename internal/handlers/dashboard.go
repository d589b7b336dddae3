package handlers

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/catalogadmin/internal/middleware"
	"github.com/example/catalogadmin/internal/models"
	"github.com/example/catalogadmin/internal/utils"
)

// newSlug in a form URL asks for an empty create form.
const newSlug = "new"

const dateLayout = "January 2, 2006"

// Search terms match literally; '!' is the LIKE escape character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// DashboardHandler renders the store admin pages.
type DashboardHandler struct {
	catalog
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{catalog: newCatalog(db, nil, nil)}
}

type dashboardEntity struct {
	Path        string
	Heading     string
	Singular    string
	Description string
	Label       string
	ExtraLabel  string
	IDName      string
	slugColumn  string
	search      string
	form        string
}

var (
	blogPage = dashboardEntity{
		Path: "blog", Heading: "Articles", Singular: "article",
		Description: "Manage articles for your store", Label: "Title", IDName: "blogSlug",
		slugColumn: "blog_slug", search: "title", form: "blog_form",
	}
	brandPage = dashboardEntity{
		Path: "brands", Heading: "Brands", Singular: "brand",
		Description: "Manage brands for your store", Label: "Name", ExtraLabel: "Category", IDName: "brandSlug",
		slugColumn: "brand_slug", search: "name", form: "brand_form",
	}
	categoryPage = dashboardEntity{
		Path: "categories", Heading: "Categories", Singular: "category",
		Description: "Manage categories for your store", Label: "Name", IDName: "categorySlug",
		slugColumn: "category_slug", search: "name", form: "category_form",
	}
	productPage = dashboardEntity{
		Path: "products", Heading: "Products", Singular: "product",
		Description: "Manage products for your store", Label: "Name", ExtraLabel: "Price", IDName: "productSlug",
		slugColumn: "product_slug", search: "name", form: "product_form",
	}
)

type apiRoute struct {
	Method string
	Path   string
}

func (e dashboardEntity) routes(storeID string) []apiRoute {
	base := "/api/" + storeID + "/" + e.Path
	one := base + "/{" + e.IDName + "}"
	return []apiRoute{
		{Method: fiber.MethodGet, Path: base},
		{Method: fiber.MethodGet, Path: one},
		{Method: fiber.MethodPost, Path: base},
		{Method: fiber.MethodPatch, Path: one},
		{Method: fiber.MethodDelete, Path: one},
	}
}

type listRow struct {
	Name  string
	Slug  string
	Extra string
	Date  string
}

type listPage struct {
	Search string
	Page   int
	Pages  int
	Limit  int
	Total  int64
	Prev   int
	Next   int
}

// Index lists the caller's stores.
func (h *DashboardHandler) Index(c *fiber.Ctx, auth middleware.AuthContext) error {
	if !auth.Authenticated() {
		return errUnauthenticated
	}

	stores, err := h.storesOf(c, auth)
	if err != nil {
		return err
	}

	rows := make([]listRow, 0, len(stores))
	for _, s := range stores {
		rows = append(rows, listRow{Name: s.Name, Slug: s.ID.String(), Date: formatDate(s.CreatedAt)})
	}

	data := layoutData("Stores", "", "")
	data["Rows"] = rows
	return c.Render("stores", data, "layout")
}

// Blogs renders the article table.
func (h *DashboardHandler) Blogs(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.ownedStore(c, auth)
	if err != nil {
		return err
	}

	var blogs []models.Blog
	page, err := h.page(c, store.ID, &models.Blog{}, blogPage.search, &blogs)
	if err != nil {
		return err
	}

	rows := make([]listRow, 0, len(blogs))
	for _, b := range blogs {
		rows = append(rows, listRow{Name: b.Title, Slug: b.BlogSlug, Date: formatDate(b.CreatedAt)})
	}
	return renderList(c, store, blogPage, rows, page)
}

// Brands renders the brand table.
func (h *DashboardHandler) Brands(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.ownedStore(c, auth)
	if err != nil {
		return err
	}

	var brands []models.Brand
	page, err := h.page(c, store.ID, &models.Brand{}, brandPage.search, &brands)
	if err != nil {
		return err
	}

	rows := make([]listRow, 0, len(brands))
	for _, b := range brands {
		rows = append(rows, listRow{Name: b.Name, Slug: b.BrandSlug, Extra: b.CategorySlug, Date: formatDate(b.CreatedAt)})
	}
	return renderList(c, store, brandPage, rows, page)
}

// Categories renders the category table.
func (h *DashboardHandler) Categories(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.ownedStore(c, auth)
	if err != nil {
		return err
	}

	var categories []models.Category
	page, err := h.page(c, store.ID, &models.Category{}, categoryPage.search, &categories)
	if err != nil {
		return err
	}

	rows := make([]listRow, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, listRow{Name: cat.Name, Slug: cat.CategorySlug, Date: formatDate(cat.CreatedAt)})
	}
	return renderList(c, store, categoryPage, rows, page)
}

// Products renders the product table.
func (h *DashboardHandler) Products(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.ownedStore(c, auth)
	if err != nil {
		return err
	}

	var products []models.Product
	page, err := h.page(c, store.ID, &models.Product{}, productPage.search, &products)
	if err != nil {
		return err
	}

	rows := make([]listRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, listRow{Name: p.Name, Slug: p.ProductSlug, Extra: p.Price.StringFixed(2), Date: formatDate(p.CreatedAt)})
	}
	return renderList(c, store, productPage, rows, page)
}

// BlogForm renders the article editor.
func (h *DashboardHandler) BlogForm(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.ownedStore(c, auth)
	if err != nil {
		return err
	}

	var blog models.Blog
	isNew, err := h.loadRecord(c, store, blogPage, &blog)
	if err != nil {
		return err
	}

	data := formData(c, store, blogPage, isNew)
	data["Blog"] = blog
	return c.Render(blogPage.form, data, "layout")
}

// BrandForm renders the brand editor with the store's categories to choose from.
func (h *DashboardHandler) BrandForm(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.ownedStore(c, auth)
	if err != nil {
		return err
	}

	var brand models.Brand
	isNew, err := h.loadRecord(c, store, brandPage, &brand)
	if err != nil {
		return err
	}

	var categories []models.Category
	if err := h.db.WithContext(c.UserContext()).Where("store_id = ?", store.ID).Order("name").Find(&categories).Error; err != nil {
		return err
	}

	data := formData(c, store, brandPage, isNew)
	data["Brand"] = brand
	data["Categories"] = categories
	return c.Render(brandPage.form, data, "layout")
}

// CategoryForm renders the category editor.
func (h *DashboardHandler) CategoryForm(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.ownedStore(c, auth)
	if err != nil {
		return err
	}

	var category models.Category
	isNew, err := h.loadRecord(c, store, categoryPage, &category)
	if err != nil {
		return err
	}

	data := formData(c, store, categoryPage, isNew)
	data["Category"] = category
	return c.Render(categoryPage.form, data, "layout")
}

// ProductForm renders the product editor with the store's categories and brands.
func (h *DashboardHandler) ProductForm(c *fiber.Ctx, auth middleware.AuthContext) error {
	store, err := h.ownedStore(c, auth)
	if err != nil {
		return err
	}

	var product models.Product
	isNew, err := h.loadRecord(c, store, productPage, &product, "Images")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	var categories []models.Category
	if err := h.db.WithContext(ctx).Where("store_id = ?", store.ID).Order("name").Find(&categories).Error; err != nil {
		return err
	}
	var brands []models.Brand
	if err := h.db.WithContext(ctx).Where("store_id = ?", store.ID).Order("name").Find(&brands).Error; err != nil {
		return err
	}

	urls := make([]string, 0, len(product.Images))
	for _, img := range product.Images {
		urls = append(urls, img.URL)
	}

	data := formData(c, store, productPage, isNew)
	data["Product"] = product
	data["Price"] = ""
	if !isNew {
		data["Price"] = product.Price.String()
	}
	data["ImageList"] = strings.Join(urls, "\n")
	data["Categories"] = categories
	data["Brands"] = brands
	return c.Render(productPage.form, data, "layout")
}

// page runs the searchable, paginated list query for a dashboard table.
func (h *DashboardHandler) page(c *fiber.Ctx, storeID uuid.UUID, model interface{}, column string, dest interface{}) (listPage, error) {
	pg := utils.ParsePagination(c)
	search := strings.TrimSpace(c.Query("search"))

	query := h.db.WithContext(c.UserContext()).Model(model).Where("store_id = ?", storeID)
	if search != "" {
		query = query.Where("LOWER("+column+") LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(search))+"%")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return listPage{}, err
	}
	if err := query.Order("created_at desc").Limit(pg.Limit).Offset(pg.Offset).Find(dest).Error; err != nil {
		return listPage{}, err
	}

	page := listPage{
		Search: search,
		Page:   pg.Page,
		Pages:  pg.Pages(total),
		Limit:  pg.Limit,
		Total:  total,
	}
	if pg.Page > 1 {
		page.Prev = pg.Page - 1
	}
	if pg.Page < page.Pages {
		page.Next = pg.Page + 1
	}
	return page, nil
}

// loadRecord fills dest from the slug in the URL. It reports true when the form should
// create a record: the slug is "new" or matches nothing in the store.
func (h *DashboardHandler) loadRecord(c *fiber.Ctx, store *models.Store, entity dashboardEntity, dest interface{}, preloads ...string) (bool, error) {
	slug := c.Params("slug")
	if slug == newSlug {
		return true, nil
	}

	query := h.db.WithContext(c.UserContext())
	for _, p := range preloads {
		query = query.Preload(p)
	}
	found, err := findOne(query.Where("store_id = ? AND "+entity.slugColumn+" = ?", store.ID, slug), dest)
	return !found, err
}

func renderList(c *fiber.Ctx, store *models.Store, entity dashboardEntity, rows []listRow, page listPage) error {
	storeID := store.ID.String()
	data := layoutData(entity.Heading+" | "+store.Name, storeID, entity.Path)
	data["StoreName"] = store.Name
	data["Entity"] = entity
	data["Rows"] = rows
	data["Page"] = page
	data["Routes"] = entity.routes(storeID)
	return c.Render("list", data, "layout")
}

func formData(c *fiber.Ctx, store *models.Store, entity dashboardEntity, isNew bool) fiber.Map {
	storeID := store.ID.String()
	endpoint := "/api/" + storeID + "/" + entity.Path

	title := "Create " + entity.Singular
	if !isNew {
		title = "Edit " + entity.Singular
		endpoint += "/" + url.PathEscape(c.Params("slug"))
	}

	// Forms do not live-reload; the editor would lose its input.
	data := layoutData(title, storeID, "")
	data["Heading"] = title
	data["Entity"] = entity
	data["IsNew"] = isNew
	data["Endpoint"] = endpoint
	data["Back"] = "/" + storeID + "/" + entity.Path
	data["UploadEndpoint"] = "/api/" + storeID + "/uploads"
	return data
}

// layoutData carries the keys the layout template reads. A non-empty live entity makes the
// page reload when that entity changes.
func layoutData(title, storeID, live string) fiber.Map {
	return fiber.Map{
		"Title":   title,
		"StoreID": storeID,
		"Live":    live,
	}
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
