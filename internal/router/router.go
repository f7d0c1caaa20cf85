package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seddikfer4/Mcdial/internal/auth"
	"github.com/seddikfer4/Mcdial/internal/companies"
	"github.com/seddikfer4/Mcdial/internal/conferences"
	"github.com/seddikfer4/Mcdial/internal/lists"
	"github.com/seddikfer4/Mcdial/internal/phones"
	"github.com/seddikfer4/Mcdial/internal/prospects"
	"github.com/seddikfer4/Mcdial/internal/reports"
	"github.com/seddikfer4/Mcdial/internal/usergroups"
	"github.com/seddikfer4/Mcdial/internal/users"
)

type Router struct {
	Auth        *auth.Handler
	Users       *users.Handler
	UserGroups  *usergroups.Handler
	Lists       *lists.Handler
	Prospects   *prospects.Handler
	Phones      *phones.Handler
	Companies   *companies.Handler
	Conferences *conferences.Handler
	Reports     *reports.Handler

	AuthMW  fiber.Handler
	AdminMW fiber.Handler
}

// RegisterRoutes binds the static route table. Authenticated route groups
// get AuthMW; admin groups additionally get AdminMW.
func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Post("/api/login", RateLimitAuth(), r.Auth.Login)
	app.Post("/api/logout", r.Auth.Logout)
	app.Get("/api/auth/me", r.AuthMW, r.Auth.Me)

	conf := app.Group("/api/conferences", r.AuthMW)
	conf.Get("/", r.Conferences.List)
	conf.Post("/", r.Conferences.Create)
	conf.Put("/", r.Conferences.SetExtension)

	lst := app.Group("/api/lists", r.AuthMW)
	lst.Get("/", r.Lists.List)
	lst.Get("/:listId", r.Lists.Get)
	lst.Post("/", r.Lists.Create)
	lst.Put("/:listId", r.Lists.Update)

	pros := app.Group("/api/prospects", r.AuthMW)
	pros.Get("/list/:listId", r.Prospects.ListByList)
	pros.Get("/:leadId", r.Prospects.Get)
	pros.Post("/", r.Prospects.Create)
	pros.Put("/:leadId", r.Prospects.Update)

	user := app.Group("/api/admin/user", r.AuthMW, r.AdminMW)
	user.Get("/users-group", r.Users.Groups)
	user.Post("/create-users", r.Users.Create)
	user.Get("/allUsers", r.Users.ListUsers)
	user.Get("/getUserById/:userId", r.Users.GetByID)
	user.Put("/users/:userId", r.Users.Update)
	user.Post("/copyUser", r.Users.Copy)
	user.Post("/userStats", r.Users.UserStats)
	user.Get("/userStatistics/:user", r.Users.Statistics)
	user.Get("/dashboardStats", r.Users.Dashboard)
	user.Get("/activeUsers", r.Users.ActiveUsers)
	user.Get("/report/:user", r.Reports.UserReport)

	phone := app.Group("/api/admin/phone", r.AuthMW, r.AdminMW)
	phone.Get("/", r.Phones.List)
	phone.Get("/:extension", r.Phones.Get)
	phone.Post("/", r.Phones.Create)
	phone.Put("/:extension", r.Phones.Update)

	comp := app.Group("/api/admin/compagnies", r.AuthMW, r.AdminMW)
	comp.Get("/", r.Companies.List)
	comp.Get("/:campaignId", r.Companies.Get)
	comp.Post("/", r.Companies.Create)
	comp.Put("/:campaignId", r.Companies.Update)

	grp := app.Group("/api/admin/usergroup", r.AuthMW, r.AdminMW)
	grp.Get("/", r.UserGroups.List)
	grp.Get("/:groupId", r.UserGroups.Get)
	grp.Post("/", r.UserGroups.Create)
	grp.Put("/:groupId", r.UserGroups.Update)
}
