package platform

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("objmodel.platform")
