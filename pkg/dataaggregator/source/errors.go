package source

import "errors"

var UnsupportedSourceError = errors.New("data source does not support this query")
