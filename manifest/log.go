package manifest

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("objmodel.manifest")
