package api

import (
	"github.com/quillhub/quillhub-backend/database"
	"github.com/quillhub/quillhub-backend/web"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database) *routeHandlers {
	return &routeHandlers{
		userHandler: newUserHandler(database.UserRepo(), database.BlogRepo(), database.TokenRepo()),
		blogHandler: newBlogHandler(database.BlogRepo()),
		postHandler: newPostHandler(database.PostRepo(), database.BlogRepo(), database.TagRepo()),
		tagHandler:  newTagHandler(database.TagRepo()),
		webHandler:  web.NewHandler(database.PostRepo()),
	}
}
