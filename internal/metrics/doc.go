// Copyright 2026 BatchHost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
包 metrics 提供基于 Prometheus 的批处理运行时指标采集能力，覆盖
批次处理、审计存储与控制面 RPC 三大维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制，避免手动管理 Registry。所有指标按 namespace 隔离，
支持多维度 label 分组，便于 Grafana 等工具进行可视化与告警。

# 核心类型

  - Collector：指标收集器，持有 Counter、Histogram、Gauge 等
    Prometheus 向量指标，按业务域分组管理。

# 主要能力

  - 批处理指标：批次总数（按结果分类）、批次大小分布、队列深度、
    merge/predict/split 各阶段耗时分布。
  - 存储指标：审计记录写入总数与耗时，按 backend/status 分组。
  - 网络指标：gRPC/HTTP 控制面请求总数与耗时，按 transport/method 分组。
*/
package metrics
