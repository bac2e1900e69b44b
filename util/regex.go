package util

import "regexp"

// 取出正则中有名字且非空的分组 不匹配时返回 false
func MatchGroups(re *regexp.Regexp, str string) (map[string]string, bool) {
	subMatch := re.FindStringSubmatch(str)
	if subMatch == nil {
		return nil, false
	}
	res := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && subMatch[i] != "" {
			res[name] = subMatch[i]
		}
	}
	return res, true
}
