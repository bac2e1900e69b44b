package main

import (
	"bufio"
	"flag"
	"fmt"
	"github.com/sirupsen/logrus"
	"net"
	"os"
)

var addr = flag.String("addr", "127.0.0.1:1234", "engine server address")

// 控制台客户端 配合 -s 模式的网络引擎使用
func main() {
	flag.Parse()
	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		logrus.Errorf("connection failed. err=%v", err)
		return
	}
	defer conn.Close()
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			text := scanner.Text()
			fmt.Fprintln(conn, text)
		}
	}()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		text := scanner.Text()
		fmt.Fprintln(os.Stdout, text)
	}
}
