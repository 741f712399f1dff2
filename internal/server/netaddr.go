package server

import (
	"fmt"
	"log"
	"net"

	"github.com/skip2/go-qrcode"
)

// lanIPv4 返回本机所有非回环的 IPv4 地址
func lanIPv4() []string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}

	var ips []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipNet.IP.To4(); ip4 != nil && !ip4.IsLoopback() {
				ips = append(ips, ip4.String())
			}
		}
	}
	return ips
}

// joinURLs 本机和局域网的访问地址，第一个为 localhost
func joinURLs(port int, ips []string) []string {
	urls := []string{fmt.Sprintf("http://localhost:%d", port)}
	for _, ip := range ips {
		urls = append(urls, fmt.Sprintf("http://%s:%d", ip, port))
	}
	return urls
}

// printBanner 打印访问地址，并为第一个局域网地址输出终端二维码
func printBanner(port int) {
	urls := joinURLs(port, lanIPv4())

	log.Println("⚡ 电椅游戏服务器已启动，访问地址:")
	for _, u := range urls {
		log.Printf("   %s", u)
	}

	if len(urls) < 2 {
		return
	}
	qr, err := qrcode.New(urls[1], qrcode.Low)
	if err != nil {
		return
	}
	fmt.Println(qr.ToSmallString(false))
}
