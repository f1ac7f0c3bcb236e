// Package validators registers the custom binding rules used by request structs
package validators

import (
	"sync"

	"github.com/sowzaxx7/8m-community/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// Register adds the forumtag rule to gin's validator. Safe to call more than once.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterValidation("forumtag", func(fl validator.FieldLevel) bool {
			return model.Tag(fl.Field().String()).Valid()
		})
	})
}
