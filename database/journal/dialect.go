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

package journal

import (
	"errors"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const mysqlScheme = "mysql://"

var ErrUnsupportedDSN = errors.New(
	"unsupported journal DSN: expected postgres://, postgresql:// or mysql://",
)

// dialectorForDSN picks the database driver from the DSN scheme. MySQL DSNs
// are in go-sql-driver format after the mysql:// prefix.
func dialectorForDSN(dsn string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"),
		strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), nil
	case strings.HasPrefix(dsn, mysqlScheme):
		return mysql.Open(strings.TrimPrefix(dsn, mysqlScheme)), nil
	default:
		return nil, ErrUnsupportedDSN
	}
}
