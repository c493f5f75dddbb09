package main

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"
)

// MiddlewareMap contains middlewares chain to
// use for page and ops requests.
type MiddlewareMap struct {
	public func(httprouter.Handle) httprouter.Handle
	ops    func(httprouter.Handle) httprouter.Handle
}

// SetupRoutes injects book pages and ops related endpoints if required.
func (wh *WebHandler) SetupRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.NotFound = wh.NotFound()
	wh.SetupBookRoutes(router, m)
	if wh.config.OpsEndpointsEnable {
		wh.SetupOpsRoutes(router, m)
	}
	return router
}

// SetupBookRoutes injects the catalog pages.
func (wh *WebHandler) SetupBookRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(wh.ListBooks))
	router.GET("/status", m.public(wh.Status))
	router.GET("/add", m.public(wh.AddBookForm))
	router.POST("/add", m.public(wh.CreateBook))
	router.GET("/edit/:id", m.public(wh.EditBookForm))
	router.POST("/edit/:id", m.public(wh.UpdateBook))
	router.GET("/delete/:id", m.public(wh.ConfirmDeleteBook))
	router.POST("/delete/:id", m.public(wh.DeleteBook))
	return router
}

// SetupOpsRoutes injects internal operations related endpoints.
func (wh *WebHandler) SetupOpsRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/ops/configs", m.ops(wh.GetConfigs))
	router.GET("/ops/stats", m.ops(wh.GetStatistics))
	router.GET("/ops/maintenance", m.ops(wh.Maintenance))
	router.GET("/ops/debug/vars", m.ops(GetMemStats))
	router.GET("/ops/debug/gc", m.ops(wh.RunGC))
	router.GET("/ops/debug/fos", m.ops(wh.FreeOSMemory))

	if wh.config.ProfilerEndpointsEnable {
		router.GET("/ops/debug/pprof/", m.ops(wh.OpsHandlerWrapper(http.HandlerFunc(pprof.Index))))
		router.GET("/ops/debug/pprof/profile", m.ops(wh.GetCPUProfile))
		router.GET("/ops/debug/pprof/trace", m.ops(wh.GetTraceProfile))
		router.GET("/ops/debug/pprof/symbol", m.ops(wh.GetSymbol))
		router.GET("/ops/debug/pprof/cmdline", m.ops(wh.GetCmdLine))
		router.GET("/ops/debug/pprof/heap", m.ops(wh.OpsHandlerWrapper(pprof.Handler("heap"))))
		router.GET("/ops/debug/pprof/allocs", m.ops(wh.OpsHandlerWrapper(pprof.Handler("allocs"))))
		router.GET("/ops/debug/pprof/goroutine", m.ops(wh.OpsHandlerWrapper(pprof.Handler("goroutine"))))
		router.GET("/ops/debug/pprof/threadcreate", m.ops(wh.OpsHandlerWrapper(pprof.Handler("threadcreate"))))
		router.GET("/ops/debug/pprof/block", m.ops(wh.OpsHandlerWrapper(pprof.Handler("block"))))
		router.GET("/ops/debug/pprof/mutex", m.ops(wh.OpsHandlerWrapper(pprof.Handler("mutex"))))
	}

	return router
}
