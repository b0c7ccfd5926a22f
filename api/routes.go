package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the JSON API and the HTML front end onto the router.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Anonymous endpoints: registration and login only
	r.Post("/api/users/register/", handlers.userHandler.register())
	r.Post("/api/users/login/", handlers.userHandler.login())

	// Token-authenticated API
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/api/users/", handlers.userHandler.listUsers())
		r.Get("/api/users/{userID}/", handlers.userHandler.getUser())

		r.Get("/api/blogs/", handlers.blogHandler.listBlogs())
		r.Post("/api/blogs/", handlers.blogHandler.createBlog())
		r.Get("/api/blogs/{blogID}/", handlers.blogHandler.getBlog())
		r.Put("/api/blogs/{blogID}/", handlers.blogHandler.updateBlog(false))
		r.Patch("/api/blogs/{blogID}/", handlers.blogHandler.updateBlog(true))
		r.Delete("/api/blogs/{blogID}/", handlers.blogHandler.deleteBlog())

		r.Get("/api/posts/", handlers.postHandler.listPosts())
		r.Post("/api/posts/", handlers.postHandler.createPost())
		r.Get("/api/posts/published/", handlers.postHandler.publishedPosts())
		r.Get("/api/posts/by_tag/", handlers.postHandler.postsByTag())
		r.Get("/api/posts/{postID}/", handlers.postHandler.getPost())
		r.Put("/api/posts/{postID}/", handlers.postHandler.updatePost(false))
		r.Patch("/api/posts/{postID}/", handlers.postHandler.updatePost(true))
		r.Delete("/api/posts/{postID}/", handlers.postHandler.deletePost())

		r.Get("/api/tags/", handlers.tagHandler.listTags())
		r.Post("/api/tags/", handlers.tagHandler.createTag())
		r.Get("/api/tags/{tagID}/", handlers.tagHandler.getTag())
		r.Put("/api/tags/{tagID}/", handlers.tagHandler.updateTag())
		r.Patch("/api/tags/{tagID}/", handlers.tagHandler.updateTag())
		r.Delete("/api/tags/{tagID}/", handlers.tagHandler.deleteTag())
	})

	// Server-rendered front end for published posts
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/", handlers.webHandler.PostList())
		r.Get("/posts/{slug}", handlers.webHandler.PostDetail())
	})
}
