package remote

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"tasknest/model"
)

var validate = validator.New()

// validateTasks checks every record against the task schema. A single
// malformed record invalidates the whole response.
func validateTasks(tasks []model.Task) error {
	for i, t := range tasks {
		if err := validate.Struct(t); err != nil {
			return model.E("remote.validateTasks", model.ErrBadData,
				fmt.Errorf("task %d (%s): %w", i, t.ID, err))
		}
	}
	return nil
}

func validateLists(lists []model.List) error {
	for i, l := range lists {
		if err := validate.Struct(l); err != nil {
			return model.E("remote.validateLists", model.ErrBadData,
				fmt.Errorf("list %d (%s): %w", i, l.ID, err))
		}
	}
	return nil
}
