//go:build windows

// Copyright 2026 Blink Labs Software
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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

// currentUserSIDString returns the SID string (e.g.
// "S-1-5-21-...-1001") for the current process user.
func currentUserSIDString(t *testing.T) string {
	t.Helper()

	var token windows.Token
	err := windows.OpenProcessToken(
		windows.CurrentProcess(),
		windows.TOKEN_QUERY,
		&token,
	)
	require.NoError(t, err)
	defer token.Close()

	tokenUser, err := token.GetTokenUser()
	require.NoError(t, err)

	return tokenUser.User.Sid.String()
}

// setOwnerOnlyDACL sets a protected DACL on the file that grants
// access only to the current user. It uses SDDL to avoid unsafe
// pointer operations that cause heap corruption on Go 1.24+.
func setOwnerOnlyDACL(t *testing.T, path string) {
	t.Helper()

	userSID := currentUserSIDString(t)
	// D:P = protected DACL (no inheritance from parent).
	// (A;;GA;;;SID) = allow GENERIC_ALL to the given SID.
	sddl := fmt.Sprintf("D:P(A;;GA;;;%s)", userSID)

	applyDACL(
		t,
		path,
		sddl,
		windows.DACL_SECURITY_INFORMATION|windows.PROTECTED_DACL_SECURITY_INFORMATION,
	)
}

func applyDACL(t *testing.T, path string, sddl string, flags windows.SECURITY_INFORMATION) {
	t.Helper()
	sd, err := windows.SecurityDescriptorFromString(sddl)
	require.NoError(t, err)
	dacl, _, err := sd.DACL()
	require.NoError(t, err)
	err = windows.SetNamedSecurityInfo(
		path,
		windows.SE_FILE_OBJECT,
		flags,
		nil, nil, dacl, nil,
	)
	require.NoError(t, err)
}

func TestInsecureFileModeWindows(t *testing.T) {
	tests := []struct {
		trustee string
		name    string
	}{
		{"WD", "Everyone"},
		{"BU", "BUILTIN\\Users"},
		{"AU", "Authenticated Users"},
	}
	for _, tc := range tests {
		t.Run(tc.trustee, func(t *testing.T) {
			testFile := filepath.Join(t.TempDir(), "claim.skey")
			require.NoError(t, os.WriteFile(testFile, []byte("{}"), 0o600))
			applyDACL(
				t,
				testFile,
				fmt.Sprintf("D:(A;;GR;;;%s)", tc.trustee),
				windows.DACL_SECURITY_INFORMATION,
			)
			err := checkPathPermissions(testFile)
			assert.ErrorIs(t, err, ErrInsecureFileMode)
			assert.Contains(t, err.Error(), tc.name)
		})
	}
}

func TestSecureFileModeWindows(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "claim.skey")
	require.NoError(t, os.WriteFile(testFile, []byte("{}"), 0o600))
	// Inherited ACLs usually include BUILTIN\Users
	setOwnerOnlyDACL(t, testFile)
	assert.NoError(t, checkPathPermissions(testFile))
}

func TestCheckDACL(t *testing.T) {
	require.ErrorIs(t, checkDACL("k", "O:BA"), ErrInsecureFileMode)
	require.NoError(t, checkDACL("k", "D:P(A;;GA;;;SY)(D;;GA;;;WD)"))
	require.ErrorIs(t, checkDACL("k", "D:(A;;GA;;;SY)(A;;GR;;;WD)S:(AU;;;;;WD)"), ErrInsecureFileMode)
}
