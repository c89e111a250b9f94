package runtime

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("objmodel.runtime")
