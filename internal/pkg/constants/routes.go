package constants

// Static route constants
const (
	HomeRoute         = "/"
	LoginRoute        = "/login"
	RegisterRoute     = "/register"
	AccountRoute      = "/account"
	AnonymOrderRoute  = "/anonym-order"
	ServiceInUseRoute = "/service-in-use"
	AdminRoute        = "/admin"
	PublicRoute       = "/static"
	PublicPath        = "./public"
	DocsRoute         = "/docs/api"
)
