package main

import (
	"log"
	"net/http"

	"golang.org/x/net/context"
)

type httpStatusService struct {
	srv     *http.Server
	handler *apiHandler
}

func (h *httpStatusService) launch(handler *apiHandler, addr string) {
	h.handler = handler
	h.srv = &http.Server{Addr: addr, Handler: newRouter(handler)}

	// add to the wg
	wg.Add(1)

	// launch the server
	go func(srv *http.Server) {
		defer wg.Done()
		log.Println("starting status http server")
		err := srv.ListenAndServe()
		if err != http.ErrServerClosed {
			log.Print(err)
		}
		log.Print("Exiting status http server")
	}(h.srv)
}

func (h *httpStatusService) stop() {
	if h.srv != nil {
		h.srv.Shutdown(context.Background())
	}
}
