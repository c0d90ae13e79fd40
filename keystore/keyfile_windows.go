//go:build windows

// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package keystore

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// Well-known groups, by SDDL alias and SID, that must not be granted access
// to a claim key file
var broadTrustees = map[string]string{
	"WD":           "Everyone",
	"S-1-1-0":      "Everyone",
	"BU":           "BUILTIN\\Users",
	"S-1-5-32-545": "BUILTIN\\Users",
	"AU":           "Authenticated Users",
	"S-1-5-11":     "Authenticated Users",
}

// checkOpenFilePermissions checks the DACL of an open key file. NTFS does
// not allow an open file to be replaced, so checking by name is safe here.
func checkOpenFilePermissions(f *os.File) error {
	return checkPathPermissions(f.Name())
}

func checkPathPermissions(path string) error {
	// The descriptor is not freed: doing so needs unsafe.Pointer, which
	// corrupts the heap on Go 1.24+ (go.dev/issue/73199). Key files are
	// only loaded at startup.
	sd, err := windows.GetNamedSecurityInfo(
		path,
		windows.SE_FILE_OBJECT,
		windows.DACL_SECURITY_INFORMATION,
	)
	if err != nil {
		return fmt.Errorf("failed to get security info for %q: %w", path, err)
	}
	sddl := sd.String()
	if sddl == "" {
		return fmt.Errorf("failed to read security descriptor for %q", path)
	}
	return checkDACL(path, sddl)
}

// checkDACL fails if the SDDL has no DACL or if an allow ACE names one of
// the broad trustees
func checkDACL(path, sddl string) error {
	dacl, ok := daclSection(sddl)
	if !ok {
		return fmt.Errorf(
			"key file %q has no DACL (unrestricted access): %w",
			path,
			ErrInsecureFileMode,
		)
	}
	for _, trustee := range allowedTrustees(dacl) {
		if name, found := broadTrustees[trustee]; found {
			return fmt.Errorf(
				"key file %q grants access to %s: %w",
				path,
				name,
				ErrInsecureFileMode,
			)
		}
	}
	return nil
}

// daclSection returns the part of an SDDL string between "D:" and the SACL
func daclSection(sddl string) (string, bool) {
	_, dacl, ok := strings.Cut(sddl, "D:")
	if !ok {
		return "", false
	}
	if before, _, found := strings.Cut(dacl, "S:"); found {
		dacl = before
	}
	return dacl, true
}

// allowedTrustees lists the trustee of every ACCESS_ALLOWED ACE. An ACE has
// the form (type;flags;rights;object;inherit;trustee).
func allowedTrustees(dacl string) []string {
	var ret []string
	for {
		_, rest, ok := strings.Cut(dacl, "(")
		if !ok {
			return ret
		}
		ace, after, ok := strings.Cut(rest, ")")
		if !ok {
			return ret
		}
		dacl = after
		fields := strings.Split(ace, ";")
		if len(fields) < 6 || fields[0] != "A" {
			continue
		}
		ret = append(ret, fields[5])
	}
}
