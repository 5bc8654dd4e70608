// Package numerals converts between small integers and Chinese numerals and
// rewrites season markers embedded in catalog titles.
//
// Douban labels TV seasons with Chinese numerals ("第二季"), while Kodi sorts
// and displays titles more predictably with zero-padded decimals ("第02季").
// The codec covers 0 through 19, which is the range the season-marker
// rewriter and the result ranker need: units 零 through 九, 十 for ten, and
// the compound forms 十一 through 十九.
package numerals
