package errors_test

import (
	"fmt"

	"github.com/matzehuels/texatlas/pkg/atlas"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
)

func ExampleFromPack() {
	_, err := atlas.Pack([]atlas.Size{{Width: 2000, Height: 2000}})
	err = apperrors.FromPack(err)

	code := apperrors.GetCode(err)
	fmt.Println(code, apperrors.HTTPStatus(code))
	// Output:
	// ATLAS_TOO_LARGE 422
}

func ExampleIs() {
	err := apperrors.New(apperrors.ErrCodeInvalidInput, "invalid size %q", "64")
	fmt.Println(apperrors.Is(err, apperrors.ErrCodeInvalidInput))
	fmt.Println(apperrors.UserMessage(err))
	// Output:
	// true
	// invalid size "64"
}
