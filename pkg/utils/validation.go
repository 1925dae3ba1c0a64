package utils

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/viveksahu26/sw360sync/pkg/types"
)

// FlagValidation checks that only the flags of the chosen adapter are set.
// For adapter "X" with prefix "in", every changed flag starting with "in-"
// must start with "in-X-".
func FlagValidation(cmd *cobra.Command, adapter types.AdapterType, adapterPrefix types.FlagPrefix) error {
	var err error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		// in-
		flagPrefix := string(adapterPrefix) + "-"

		// in-folder-
		flagType := fmt.Sprintf("%s%s-", flagPrefix, string(adapter))

		if strings.HasPrefix(f.Name, flagPrefix) && !strings.HasPrefix(f.Name, flagType) {
			err = fmt.Errorf("flag --%s is invalid for %s adapter %s", f.Name, string(adapterPrefix)+"put", string(adapter))
		}
	})
	return err
}

// IsValidURL checks if the given string is an absolute http(s) URL.
func IsValidURL(input string) bool {
	parsedURL, err := url.ParseRequestURI(input)
	if err != nil {
		return false
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return false
	}
	return parsedURL.Host != ""
}
