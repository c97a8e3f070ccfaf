package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

var infoPages = []string{
	"sobre_nosotros",
	"preguntas_frecuentes",
	"politica_privacidad",
	"terminos_de_uso",
}

func (routes *Routes) PagesRouter(r chi.Router) {
	for _, name := range infoPages {
		r.Get("/"+name, routes.GetPage(name))
	}
}

func (routes *Routes) GetPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routes.tmpls.RenderHTML(w, name, routes.newPage(r))
	}
}
