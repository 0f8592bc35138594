package nm

import (
	"fmt"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Like ipv4, but also accepts a host address with a prefix length
	// ("192.168.1.5/24"), which cidrv4 rejects unless it is a network address.
	_ = v.RegisterValidation("ipv4_prefix", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if ip, _, err := net.ParseCIDR(s); err == nil {
			return ip.To4() != nil
		}
		ip := net.ParseIP(s)
		return ip != nil && ip.To4() != nil
	})
	return v
}

// Validate checks that the details can be written back with SetConnectionDetails.
func (d ConnectionDetails) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidDetails, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidDetails, strings.Join(msgs, ", "))
}
