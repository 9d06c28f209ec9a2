// Copyright 2026 BatchHost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package config 提供 batchhost 的配置管理功能。

# 概述

config 包负责进程配置的加载，按 "默认值 -> YAML 文件 -> 环境变量"
的优先级合并，并在加载完成后立即执行结构性校验。

# 核心结构

  - Config: 顶层配置聚合，涵盖 Host、Server、Storage、Redis、
    Auth、RateLimit、Log、Telemetry
  - Loader: 配置加载器，支持 Builder 模式链式设置文件路径、
    环境变量前缀与自定义验证器

# 主要能力

  - 多源加载: YAML 文件、环境变量（BATCHHOST_ 前缀）、默认值
  - 配置验证: 内置基础校验（Validate）+ 自定义 WithValidator 钩子

# 使用示例

	cfg, err := config.NewLoader().
		WithConfigPath("config.yaml").
		WithEnvPrefix("BATCHHOST").
		Load()
*/
package config
