package submission

import "github.com/m04kA/recentro-booking/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
